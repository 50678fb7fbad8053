package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an INSERT from the db-tagged exported fields of model.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	value, err := structValue(model)
	if err != nil {
		return "", nil, err
	}

	cols := make([]string, 0, value.NumField())
	vals := make([]any, 0, value.NumField())
	walkColumns(value.Type(), func(i int, col string) {
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	})
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("model has no db columns")
	}
	return InsertInto(table).Columns(cols...).Values(vals...).Suffix(suffix).ToSQL()
}

// Columns lists the db column names of a model type, optionally qualified with an alias.
func Columns(model any, alias string) []string {
	typ := reflect.TypeOf(model)
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil
	}

	var out []string
	walkColumns(typ, func(_ int, col string) {
		if alias != "" {
			col = alias + "." + col
		}
		out = append(out, col)
	})
	return out
}

func walkColumns(typ reflect.Type, fn func(i int, col string)) {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		fn(i, col)
	}
}

func structValue(model any) (reflect.Value, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("model must be struct")
	}
	return value, nil
}
