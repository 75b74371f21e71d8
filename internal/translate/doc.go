/*
Package translate turns predicate and selector trees into SQL clause text.

Translation is a single recursive walk over the tree. Comparisons on
properties without a column are left out of the output; operators that have
no SQL translation abort the walk with an error and no output. All values are
inlined as literals, there are no placeholders.
*/
package translate
