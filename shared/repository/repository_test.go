package repository_test

import (
	"context"
	"testing"
	otelMocks "todos/infras/otel/mocks"
	"todos/infras/postgres"
	"todos/shared/dto"
	"todos/shared/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type audit struct {
	ID      string `db:"id"`
	Actor   string `db:"actor"`
	Ignored string `db:"-"`
	Note    string
}

func newTable(t *testing.T) (repository.Table[audit], sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	conn := sqlx.NewDb(db, "postgres")

	return repository.NewTable[audit]("audit", "audits", "id", &postgres.Connection{Read: conn, Write: conn}, otelMocks.NewOtel()), mock
}

func TestTable_SelectWithoutPaging(t *testing.T) {
	table, mock := newTable(t)

	mock.ExpectPrepare(`^SELECT audits\.id, audits\.actor FROM audits$`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "actor"}).AddRow("1", "alice"))

	rows, err := table.Select(context.Background(), dto.QueryParams{}, dto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, []audit{{ID: "1", Actor: "alice"}}, rows)
}

func TestTable_MutationsRequireFilter(t *testing.T) {
	table, _ := newTable(t)

	err := table.Update(context.Background(), map[string]any{"actor": "bob"}, dto.FilterGroup{})
	assert.ErrorIs(t, err, repository.ErrRequiredFilter)

	err = table.Delete(context.Background(), dto.FilterGroup{})
	assert.ErrorIs(t, err, repository.ErrRequiredFilter)
}

func TestTable_UpdateKeepsFilterValues(t *testing.T) {
	table, mock := newTable(t)

	mock.ExpectExec(`^UPDATE audits SET actor = \$1 WHERE \(audits\.actor = \$2\)$`).
		WithArgs("bob", "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	filter := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "actor", Value: "alice", Operator: dto.FilterOperatorEq, Table: "audits"},
		},
	}

	err := table.Update(context.Background(), map[string]any{"actor": "bob"}, filter)
	assert.NoError(t, err)
}
