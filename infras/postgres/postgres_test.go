package postgres_test

import (
	"testing"
	"todos/config"
	"todos/infras/postgres"

	"github.com/stretchr/testify/assert"
)

func TestEndpoints(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "dev_"
	cfg.DB.Postgres.Write.Username = "todos"
	cfg.DB.Postgres.Write.Password = "p@ss/word"
	cfg.DB.Postgres.Write.Host = "db"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Name = "todos"
	cfg.DB.Postgres.Write.SSLMode = "disable"
	cfg.DB.Postgres.Read.Host = "replica"
	cfg.DB.Postgres.Read.Port = "5433"
	cfg.DB.Postgres.Read.Name = "todos"

	write := postgres.WriteEndpoint(cfg)
	assert.Equal(t, "dev_todos", write.DBName)
	assert.Equal(t, "postgres://todos:p%40ss%2Fword@db:5432/dev_todos?sslmode=disable", write.DSN())

	read := postgres.ReadEndpoint(cfg)
	assert.Equal(t, "read", read.Name)
	assert.Equal(t, "postgres://:@replica:5433/dev_todos", read.DSN())
}
