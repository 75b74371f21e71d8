/*
Package sqlclause turns predicate and selector trees over Go entities into SQL clause text.

A predicate such as "author is Tolkien and the book was published after 1950" is written as an [ast.Node] tree over the properties of an entity.
Each entity is registered once with a property to column mapping, and the translator uses that mapping to write the clause text.

# Basics

Given the tagged struct "Book":

	type Book struct {
		Id		int		`db:"id"`
		Author		string		`db:"author"`
		PublicationDate	time.Time	`db:"pub_date"`
	}

the registry and the WHERE clause are built with:

	registry, err := sqlclause.NewRegistryBuilder().Register(Book{}).Build()
	where, err := registry.Where(Book{}, ast.All(
		ast.Eq(ast.Field("Author"), ast.Value("Tolkien")),
		ast.Gt(ast.Field("PublicationDate"), ast.Value(date)),
	))
	// => WHERE author = 'Tolkien' AND pub_date > '1950-01-01 00:00:00.000'

Mappings can also be written by hand with [RegistryBuilder.Entity] or read from a YAML file with [RegistryBuilder.LoadYAML].

# Translation rules

 1. Comparisons become "column op literal". A comparison with null always uses IS.
 2. ast.And, ast.Or and ast.OrElse are parenthesised: (l AND r), (l OR r).
 3. ast.AndAlso joins comparisons with AND without parentheses. A parenthesised
    operand is joined with a space only: id = 1 (id = 2 OR id = 3).
 4. ast.Coalesce on the left of a comparison becomes COALESCE(column, fallback).
 5. Comparisons on properties with no column are left out.
 6. Arithmetic and bitwise operators are rejected with [ErrUnsupportedOperator].

Literals are written inline and strings are NOT escaped.
The generated text must never be built from untrusted input.

# Updates

[Update] writes "UPDATE table SET ... WHERE ..." from a patch, which is either a struct or a [Patch].
Nil and zero values are not changes.
When there are no changes the statement is empty, and [DB.Exec] treats an empty statement as nothing to do.
*/
package sqlclause
