package typeinfo

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReflectSimpleConcurrent(t *testing.T) {
	type mystruct struct{}
	var st mystruct
	wg := sync.WaitGroup{}

	// Set up some concurrent access.
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			_, _ = GetTypeInfo(st)
			wg.Done()
		}()
	}

	info, err := GetTypeInfo(st)
	assert.Nil(t, err)

	assert.Equal(t, reflect.Struct, info.Type.Kind())
	assert.Equal(t, "mystruct", info.Type.Name())

	wg.Wait()
}

func TestReflectStruct(t *testing.T) {
	type something struct {
		ID      int64  `db:"id"`
		Name    string `db:"name,omitempty"`
		NotInDB string
		hidden  int
	}

	s := something{
		ID:      99,
		Name:    "Chainheart Machine",
		NotInDB: "doesn't matter",
	}

	info, err := GetTypeInfo(&s)
	assert.Nil(t, err)

	assert.Equal(t, reflect.Struct, info.Type.Kind())
	assert.Equal(t, "something", info.Type.Name())

	assert.Len(t, info.TagToField, 2)
	assert.Len(t, info.Fields, 3)

	id, ok := info.TagToField["id"]
	assert.True(t, ok)
	assert.Equal(t, "ID", id.Name)
	assert.Equal(t, "id", id.Tag)

	name, ok := info.TagToField["name"]
	assert.True(t, ok)
	assert.Equal(t, "Name", name.Name)
	assert.Equal(t, "name", name.Tag)

	assert.Equal(t, map[string]string{"ID": "id", "Name": "name"}, info.FieldToTag)
	_, ok = info.FieldToTag["NotInDB"]
	assert.False(t, ok)
}

func TestReflectNonStructType(t *testing.T) {
	var i int
	var s string
	var mymap map[string]string

	for _, v := range []any{i, s, mymap} {
		info, err := GetTypeInfo(v)
		assert.EqualError(t, err, "can only reflect struct type")
		assert.Equal(t, &Info{}, info)
	}

	info, err := GetTypeInfo(nil)
	assert.EqualError(t, err, "cannot reflect nil value")
	assert.Equal(t, &Info{}, info)
}

func TestReflectBadTagError(t *testing.T) {
	{
		type s1 struct {
			ID int64 `db:"id,bad-juju"`
		}
		_, err := GetTypeInfo(s1{})
		assert.EqualError(t, err, `field "ID" of struct "s1": unexpected tag value "bad-juju"`)
	}
	{
		type s2 struct {
			ID int64 `db:","`
		}
		_, err := GetTypeInfo(s2{})
		assert.EqualError(t, err, `field "ID" of struct "s2": unexpected tag value ""`)
	}
	{
		type s3 struct {
			ID int64 `db:",omitempty"`
		}
		_, err := GetTypeInfo(s3{})
		assert.EqualError(t, err, `field "ID" of struct "s3": empty db tag`)
	}
	{
		type s4 struct {
			ID int64 `db:"id,omitempty,extra"`
		}
		_, err := GetTypeInfo(s4{})
		assert.EqualError(t, err, `field "ID" of struct "s4": too many options in 'db' tag`)
	}
	{
		type s5 struct {
			ID int64 `db:"5id"`
		}
		_, err := GetTypeInfo(s5{})
		assert.EqualError(t, err, `field "ID" of struct "s5": invalid column name in 'db' tag`)
	}
	{
		type s6 struct {
			ID    int64 `db:"id"`
			Other int64 `db:"id"`
		}
		_, err := GetTypeInfo(s6{})
		assert.EqualError(t, err, `fields "ID" and "Other" of struct "s6" have the same db tag "id"`)
	}
}

func TestValidColumnName(t *testing.T) {
	assert.True(t, ValidColumnName("pub_date"))
	assert.True(t, ValidColumnName("_x9"))
	assert.False(t, ValidColumnName("9x"))
	assert.False(t, ValidColumnName("pub-date"))
	assert.False(t, ValidColumnName(""))
}

func TestPatchValues(t *testing.T) {
	type patch struct {
		Title    string
		Author   *string
		Pages    int
		Released time.Time
		private  string
	}

	author := "Tolkien"
	values, err := PatchValues(patch{Title: "New", Author: &author, private: "x"})
	assert.Nil(t, err)
	assert.Equal(t, []FieldValue{
		{Name: "Title", Value: "New"},
		{Name: "Author", Value: &author},
		{Name: "Pages", Value: 0},
		{Name: "Released", Value: time.Time{}},
	}, values)

	values, err = PatchValues(&patch{})
	assert.Nil(t, err)
	if assert.Len(t, values, 4) {
		assert.Nil(t, values[1].Value)
	}
}

func TestPatchValuesErrors(t *testing.T) {
	_, err := PatchValues(nil)
	assert.EqualError(t, err, "need struct patch, got nil")

	_, err = PatchValues(map[string]any{"Title": "New"})
	assert.EqualError(t, err, "need struct patch, got map")

	var p *struct{ Title string }
	_, err = PatchValues(p)
	assert.EqualError(t, err, "need struct patch, got nil")

	type bad struct {
		Title string `db:"a,b,c"`
	}
	_, err = PatchValues(bad{})
	assert.EqualError(t, err, `cannot enumerate patch: field "Title" of struct "bad": too many options in 'db' tag`)
}

func TestIsZero(t *testing.T) {
	var nilPtr *int
	one := 1
	assert.True(t, IsZero(nil))
	assert.True(t, IsZero(0))
	assert.True(t, IsZero(""))
	assert.True(t, IsZero(false))
	assert.True(t, IsZero(time.Time{}))
	assert.True(t, IsZero(nilPtr))
	assert.False(t, IsZero(&one))
	assert.False(t, IsZero("x"))
	assert.False(t, IsZero(time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)))
}
