package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildConnectionString(t *testing.T) {
	db := NewPostgresDB(&DBConfig{
		Host:     "db",
		Port:     5432,
		Username: "app",
		Password: "p@ss/word",
		DBName:   "newsroom",
	})
	assert.Equal(t, "postgresql://app:p%40ss%2Fword@db:5432/newsroom?sslmode=disable", db.buildConnectionString())

	db.Config.SSLMode = "require"
	assert.Contains(t, db.buildConnectionString(), "sslmode=require")
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS articles")
	assert.Contains(t, schemaSQL, "PRIMARY KEY (poll_id, voter_key)")
}
