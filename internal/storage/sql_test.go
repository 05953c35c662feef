package storage

import (
	"context"
	"testing"

	"fieldcrm/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestSQL(t *testing.T) *SQL {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	backend, err := NewSQL(conn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func TestSQLBackendUpsert(t *testing.T) {
	ctx := context.Background()
	backend := newTestSQL(t)

	_, err := backend.Get(ctx, KeyAttendanceRecords)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, backend.Put(ctx, KeyAttendanceRecords, []byte(`[]`)))
	require.NoError(t, backend.Put(ctx, KeyAttendanceRecords, []byte(`[{"id":"att-1"}]`)))

	got, err := backend.Get(ctx, KeyAttendanceRecords)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"att-1"}]`, string(got))

	var count int64
	require.NoError(t, backend.db.Model(&Slot{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestOpenSQLRejectsUnknownDriver(t *testing.T) {
	_, err := OpenSQL(context.Background(), "oracle", config.DBConfig{DSN: "x"}, nil)
	assert.Error(t, err)
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, &config.Config{Store: config.StoreConfig{Backend: config.BackendMemory}}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, b)

	b, err = Open(ctx, &config.Config{Store: config.StoreConfig{Backend: config.BackendFile, Dir: t.TempDir()}}, nil)
	require.NoError(t, err)
	assert.IsType(t, &File{}, b)

	b, err = Open(ctx, &config.Config{
		Store: config.StoreConfig{Backend: config.BackendSQLite},
		DB:    config.DBConfig{DSN: "file:open_selects?mode=memory&cache=shared", ConnectAttempts: 1},
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQL{}, b)
	assert.NoError(t, b.Close())
}
