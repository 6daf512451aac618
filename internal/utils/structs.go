package utils

import (
	"fmt"
	"reflect"
	"strings"
)

var ColumnTag = "db"

type taggedField struct {
	column string
	value  reflect.Value
}

func taggedFields(input any) []taggedField {
	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	t := v.Type()
	out := make([]taggedField, 0, v.NumField())
	for i := range v.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		column, _, _ := strings.Cut(field.Tag.Get(ColumnTag), ",")
		if column == "" || column == "-" {
			continue
		}

		out = append(out, taggedField{column: column, value: v.Field(i)})
	}

	return out
}

// StructTagValues lists the column tag of every exported field in declaration
// order. Fields without a tag, or tagged "-", are skipped.
func StructTagValues(input any) []string {
	fields := taggedFields(input)
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.column
	}
	return out
}

// StructToMap maps column tag to field value, suitable for squirrel SetMap.
func StructToMap(input any) map[string]any {
	fields := taggedFields(input)
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.column] = f.value.Interface()
	}
	return out
}

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}

	if msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)
}
