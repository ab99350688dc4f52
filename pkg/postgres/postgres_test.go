package postgres

import (
	"context"
	"testing"

	"github.com/DRSN-tech/affiliate-catalog/internal/cfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCfg() *cfg.PGDBCfg {
	return &cfg.PGDBCfg{
		Host:     "127.0.0.1",
		Port:     "1",
		User:     "catalog",
		Password: "secret",
		DBName:   "catalog",
		SSLMode:  "disable",
	}
}

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"host=127.0.0.1 port=1 user=catalog password=secret dbname=catalog sslmode=disable",
		DSN(testCfg()),
	)
}

func TestConnect_IsLazy(t *testing.T) {
	db, err := Connect(context.Background(), testCfg())
	require.NoError(t, err)
	defer db.Close()

	assert.Error(t, db.Ping(context.Background()))
}
