package shared

import (
	"reflect"
	"strings"
	"todos/shared/dto"
)

// BuildCacheKey joins the non-empty parts of a cache key with ':'.
func BuildCacheKey(parts ...string) string {
	keys := make([]string, 0, len(parts))

	for _, part := range parts {
		if part == "" {
			continue
		}

		keys = append(keys, part)
	}

	return strings.Join(keys, ":")
}

// TransformFields converts the db-tagged fields of a struct into a column map for an update.
// Nil pointers are skipped, other pointers are dereferenced, zero values are kept so that
// "done": false is written like any other value.
func TransformFields(data any) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	if val.Kind() == reflect.Pointer {
		val = val.Elem()
		typ = typ.Elem()
	}

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" || fieldName == "-" {
			continue
		}

		field := val.Field(index)
		if field.Kind() == reflect.Pointer {
			if field.IsNil() {
				continue
			}

			field = field.Elem()
		}

		updatedFields[fieldName] = field.Interface()
	}

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// KeyValue is one column of a composite key.
type KeyValue struct {
	Field string
	Value any
}

// FilterByKey matches a single row by its composite key, in the given column order.
func FilterByKey(table string, key ...KeyValue) dto.FilterGroup {
	filters := make([]any, 0, len(key))

	for _, kv := range key {
		filters = append(filters, dto.Filter{
			Field:    kv.Field,
			Value:    kv.Value,
			Operator: dto.FilterOperatorEq,
			Table:    table,
		})
	}

	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters:  filters,
	}
}
