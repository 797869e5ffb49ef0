package status

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesribeiro/painel-ti/internal/platform/database"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestResolveSentinels(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`INSERT INTO statusTypes (id, name, color) VALUES
		(1, 'Ok', 'green'), (2, 'Atenção', 'orange'), (5, 'Sem status', 'gray')`)
	require.NoError(t, err)

	svc := NewService(NewSQLiteRepository(db))
	sentinels, err := svc.ResolveSentinels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), sentinels.OK)
	assert.Equal(t, int64(5), sentinels.NoStatus)
}

func TestResolveSentinelsMissingOk(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`INSERT INTO statusTypes (id, name, color) VALUES (5, 'Sem status', 'gray')`)
	require.NoError(t, err)

	svc := NewService(NewSQLiteRepository(db))
	_, err = svc.ResolveSentinels(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Ok"`)
}

func TestResolveSentinelsMissingNoStatus(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`INSERT INTO statusTypes (id, name, color) VALUES (1, 'Ok', 'green')`)
	require.NoError(t, err)

	svc := NewService(NewSQLiteRepository(db))
	_, err = svc.ResolveSentinels(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Sem status"`)
}

func TestListOrderedByID(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`INSERT INTO statusTypes (id, name, color) VALUES
		(2, 'Atenção', 'orange'), (1, 'Ok', 'green')`)
	require.NoError(t, err)

	svc := NewService(NewSQLiteRepository(db))
	types, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "Ok", types[0].Name)
	assert.Equal(t, "Atenção", types[1].Name)
}
