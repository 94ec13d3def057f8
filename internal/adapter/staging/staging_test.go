package staging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Stage(ctx, "a", time.Minute))
	require.NoError(t, m.Stage(ctx, "b", 2*time.Minute))

	open, err := m.IsOpen(ctx, "a")
	require.NoError(t, err)
	assert.True(t, open)

	require.NoError(t, m.Remove(ctx, "a"))
	open, _ = m.IsOpen(ctx, "a")
	assert.False(t, open)
	// removing twice is fine
	assert.NoError(t, m.Remove(ctx, "a"))

	now = now.Add(2 * time.Minute)
	open, _ = m.IsOpen(ctx, "b")
	assert.False(t, open, "expired order must not be open")
	assert.Empty(t, m.orders)

	open, _ = m.IsOpen(ctx, "unknown")
	assert.False(t, open)
}

func TestMemory_StageDropsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Stage(ctx, "old", time.Second))
	now = now.Add(time.Minute)
	require.NoError(t, m.Stage(ctx, "new", time.Second))

	assert.Len(t, m.orders, 1)
}

func TestRedis_Stage(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		r := NewRedis(db)

		mock.ExpectSet(keyPrefix+"o1", 1, 2*time.Minute).SetVal("OK")

		assert.NoError(t, r.Stage(context.Background(), "o1", 2*time.Minute))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		r := NewRedis(db)

		mock.ExpectSet(keyPrefix+"o1", 1, time.Minute).SetErr(errors.New("READONLY"))

		assert.Error(t, r.Stage(context.Background(), "o1", time.Minute))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedis_IsOpen(t *testing.T) {
	type isOpenTest struct {
		name    string
		prepare func(mock redismock.ClientMock)
		expOpen bool
		expErr  bool
	}

	tests := []isOpenTest{
		{
			name:    "staged",
			prepare: func(mock redismock.ClientMock) { mock.ExpectExists(keyPrefix + "o1").SetVal(1) },
			expOpen: true,
		},
		{
			name:    "claimed or expired",
			prepare: func(mock redismock.ClientMock) { mock.ExpectExists(keyPrefix + "o1").SetVal(0) },
		},
		{
			name:    "redis down",
			prepare: func(mock redismock.ClientMock) { mock.ExpectExists(keyPrefix + "o1").SetErr(errors.New("dial tcp")) },
			expErr:  true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			test.prepare(mock)

			open, err := NewRedis(db).IsOpen(context.Background(), "o1")
			assert.Equal(t, test.expOpen, open)
			assert.Equal(t, test.expErr, err != nil)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedis_Remove(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectDel(keyPrefix + "o1").SetVal(1)

	assert.NoError(t, NewRedis(db).Remove(context.Background(), "o1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
