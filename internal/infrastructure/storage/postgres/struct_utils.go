package postgres

import (
	"reflect"
	"sync"
)

// dbField is one addressable column of a struct: its column name and the
// index path reflect.Value.FieldByIndex understands, so embedded structs
// flatten into the same column set.
type dbField struct {
	column string
	index  []int
}

// fieldCache maps reflect.Type to []dbField, built once per type.
var fieldCache sync.Map

func dbFields(t reflect.Type) []dbField {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]dbField)
	}

	var fields []dbField
	if t.Kind() == reflect.Struct {
		fields = collectDBFields(t, nil)
	}
	fieldCache.Store(t, fields)
	return fields
}

func collectDBFields(t reflect.Type, prefix []int) []dbField {
	var out []dbField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		path := append(append([]int(nil), prefix...), i)

		if f.Anonymous {
			ft := f.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				out = append(out, collectDBFields(ft, path)...)
			}
			continue
		}

		tag := f.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		out = append(out, dbField{column: tag, index: path})
	}
	return out
}

// ExtractDBColumns lists the column names declared by T's "db" tags,
// embedded structs included. Repositories call it once at construction to
// build their SELECT column lists.
func ExtractDBColumns[T any]() []string {
	var zero T
	fields := dbFields(reflect.TypeOf(zero))
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.column
	}
	return cols
}

// StructToMap flattens a struct into a column->value map using "db" tags.
// Fields without a tag, or tagged "-", are skipped. Reflection metadata is
// cached per type.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	fields := dbFields(rv.Type())
	res := make(map[string]any, len(fields))
	for _, f := range fields {
		res[f.column] = rv.FieldByIndex(f.index).Interface()
	}
	return res
}
