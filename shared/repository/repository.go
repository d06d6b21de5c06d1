package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"todos/infras/otel"
	"todos/infras/postgres"
	"todos/shared/constant"
	"todos/shared/dto"
	"todos/shared/logger"
)

var ErrRequiredFilter = errors.New("required filter")

const setParamPrefix = "set_"

// Table runs single-table statements for rows scanned into T. Columns come from
// the db tags of T, in field order.
type Table[T any] struct {
	db      *postgres.Connection
	otel    otel.Otel
	name    string
	entity  string
	key     string
	columns []string
}

func NewTable[T any](entity, name, key string, db *postgres.Connection, otl otel.Otel) Table[T] {
	var zero T

	return Table[T]{
		db:      db,
		otel:    otl,
		name:    name,
		entity:  entity,
		key:     key,
		columns: dbColumns(reflect.TypeOf(zero)),
	}
}

func (t *Table[T]) scope(ctx context.Context, method string) (context.Context, otel.Scope) {
	return t.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, t.entity, method))
}

func (t *Table[T]) fail(scope otel.Scope, err error, action string) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, t.entity, err)
}

func (t *Table[T]) selectList() string {
	qualified := make([]string, len(t.columns))
	for i, col := range t.columns {
		qualified[i] = t.name + "." + col
	}

	return strings.Join(qualified, ", ")
}

func where(filter dto.FilterGroup) (string, map[string]any) {
	clause, args := filter.GetWhereClause()
	if clause == "" {
		return "", map[string]any{}
	}

	return " WHERE " + clause, args
}

// Upsert inserts the row, replacing every non-key column when the key already exists.
func (t *Table[T]) Upsert(ctx context.Context, row T) error {
	ctx, scope := t.scope(ctx, "Upsert")
	defer scope.End()

	values := make([]string, len(t.columns))
	updates := make([]string, 0, len(t.columns))

	for i, col := range t.columns {
		values[i] = ":" + col

		if col != t.key {
			updates = append(updates, col+" = EXCLUDED."+col)
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		t.name, strings.Join(t.columns, ", "), strings.Join(values, ", "), t.key, strings.Join(updates, ", "))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := t.db.Write.NamedExecContext(ctx, query, row); err != nil {
		return t.fail(scope, err, "upsert data")
	}

	return nil
}

// Get returns the zero T when nothing matches.
func (t *Table[T]) Get(ctx context.Context, filter dto.FilterGroup) (T, error) {
	ctx, scope := t.scope(ctx, "Get")
	defer scope.End()

	var row T

	clause, args := where(filter)
	query := fmt.Sprintf("SELECT %s FROM %s%s", t.selectList(), t.name, clause)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := t.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return row, t.fail(scope, err, "prepare statement")
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &row, args)
	if errors.Is(err, sql.ErrNoRows) {
		return row, nil
	}

	if err != nil {
		return row, t.fail(scope, err, "get data")
	}

	return row, nil
}

// Select returns one page of matching rows. A non-positive limit returns every row.
func (t *Table[T]) Select(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup) ([]T, error) {
	ctx, scope := t.scope(ctx, "Select")
	defer scope.End()

	clause, args := where(filter)

	var query strings.Builder

	fmt.Fprintf(&query, "SELECT %s FROM %s%s", t.selectList(), t.name, clause)

	if params.SortBy != "" && params.SortDir != "" {
		fmt.Fprintf(&query, " ORDER BY %s %s", params.SortBy, params.SortDir)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		query.WriteString(" LIMIT :limit")

		if params.Page > 0 {
			args["offset"] = (params.Page - 1) * params.Limit
			query.WriteString(" OFFSET :offset")
		}
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query.String())

	var rows []T

	stmt, err := t.db.Read.PrepareNamedContext(ctx, query.String())
	if err != nil {
		return nil, t.fail(scope, err, "prepare statement")
	}
	defer stmt.Close()

	if err = stmt.SelectContext(ctx, &rows, args); err != nil {
		return nil, t.fail(scope, err, "select data")
	}

	return rows, nil
}

// Update sets the given columns on every row matching a non-empty filter.
func (t *Table[T]) Update(ctx context.Context, set map[string]any, filter dto.FilterGroup) error {
	ctx, scope := t.scope(ctx, "Update")
	defer scope.End()

	clause, args := where(filter)
	if clause == "" {
		return ErrRequiredFilter
	}

	// SET values get their own parameter names so a column can be filtered on and updated at once.
	assignments := make([]string, 0, len(set))
	for _, col := range slices.Sorted(maps.Keys(set)) {
		assignments = append(assignments, col+" = :"+setParamPrefix+col)
		args[setParamPrefix+col] = set[col]
	}

	query := fmt.Sprintf("UPDATE %s SET %s%s", t.name, strings.Join(assignments, ", "), clause)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := t.db.Write.NamedExecContext(ctx, query, args); err != nil {
		return t.fail(scope, err, "update data")
	}

	return nil
}

// Delete removes every row matching a non-empty filter.
func (t *Table[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	ctx, scope := t.scope(ctx, "Delete")
	defer scope.End()

	clause, args := where(filter)
	if clause == "" {
		return ErrRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s%s", t.name, clause)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := t.db.Write.NamedExecContext(ctx, query, args); err != nil {
		return t.fail(scope, err, "delete data")
	}

	return nil
}

func dbColumns(typ reflect.Type) []string {
	var columns []string

	for i := range typ.NumField() {
		field := typ.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, dbColumns(field.Type)...)

			continue
		}

		if tag := field.Tag.Get("db"); tag != "" && tag != "-" {
			columns = append(columns, tag)
		}
	}

	return columns
}
