package services

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A cache hit never reaches the database; the service is built without
// an app to prove it.
func TestSoldCount_CacheHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewCatalogService(nil, db)

	mock.ExpectGet("sold:tt1").SetVal("7")

	sold, err := svc.SoldCount(context.Background(), "tt1")

	require.NoError(t, err)
	assert.Equal(t, 7, sold)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateSoldCount(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewCatalogService(nil, db)

	mock.ExpectDel("sold:tt1", "sold:tt2").SetVal(2)

	svc.InvalidateSoldCount(context.Background(), "tt1", "tt2")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateSoldCount_NoKeys(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewCatalogService(nil, db)

	svc.InvalidateSoldCount(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet())
}
