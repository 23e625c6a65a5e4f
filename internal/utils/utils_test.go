package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSNFromEnv(t *testing.T) {
	t.Setenv("PG_HOST", "")
	assert.Empty(t, BuildPostgresDSNFromEnv())

	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_PORT", "")
	t.Setenv("PG_USER", "agri")
	t.Setenv("PG_PASSWORD", "s3cret")
	t.Setenv("PG_DB", "")
	t.Setenv("PG_SSLMODE", "require")
	assert.Equal(t, "postgres://agri:s3cret@db:5432/agrimap?sslmode=require", BuildPostgresDSNFromEnv())
}

func TestOpenFromEnv_Disabled(t *testing.T) {
	t.Setenv("PG_HOST", "")
	db, err := OpenPostgresFromEnv()
	require.NoError(t, err)
	assert.Nil(t, db)

	t.Setenv("REDIS_HOST", "")
	assert.Nil(t, OpenRedisFromEnv())
}

func TestOpenRedisFromEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "127.0.0.1")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "x")
	rc := OpenRedisFromEnv()
	require.NotNil(t, rc)
	defer rc.Close()
	assert.Equal(t, "127.0.0.1:6380", rc.Options().Addr)
	assert.Equal(t, 0, rc.Options().DB)
}
