package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakeyudi/huntsplit/internal/report"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2025, 7, 14, 20, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func sampleSession(start time.Time, names ...string) *report.Session {
	players := make([]report.Player, len(names))
	for i, n := range names {
		players[i] = report.Player{Name: n, Supplies: int64(100 * (i + 1)), IsLeader: i == 0}
	}
	return &report.Session{
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
		Duration:     "01:00h",
		LootType:     report.LootLeader,
		TotalBalance: 900,
		Players:      players,
	}
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sess := sampleSession(time.Date(2025, 7, 14, 18, 13, 49, 0, time.UTC), "Bob", "Alice")
	saved, err := s.Save(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, saved.ID, 36)

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.True(t, saved.SavedAt.Equal(got.SavedAt))
	assert.True(t, sess.StartTime.Equal(got.Session.StartTime))
	assert.Equal(t, sess.Players, got.Session.Players)
	assert.Equal(t, sess.TotalBalance, got.Session.TotalBalance)
}

func TestGetByPrefix(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, sampleSession(time.Now().UTC(), "Bob"))
	require.NoError(t, err)

	got, err := s.Get(ctx, saved.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
}

func TestGetAmbiguousPrefix(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Save(ctx, sampleSession(time.Now().UTC(), "Bob"))
		require.NoError(t, err)
	}
	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Random ids rarely collide on a prefix, so force two that do.
	_, err = s.db.Exec(`UPDATE sessions SET id = 'abc-1' WHERE id = ?`, entries[0].ID)
	require.NoError(t, err)
	_, err = s.db.Exec(`UPDATE sessions SET id = 'abc-2' WHERE id = ?`, entries[1].ID)
	require.NoError(t, err)

	_, err = s.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	got, err := s.Get(ctx, "abc-2")
	require.NoError(t, err)
	assert.Equal(t, "abc-2", got.ID)
}

func TestGetNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(ctx, "  ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 4; i++ {
		e, err := s.Save(ctx, sampleSession(time.Date(2025, 7, 10+i, 18, 0, 0, 0, time.UTC), "Bob"))
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, e := range all {
		assert.Equal(t, ids[len(ids)-1-i], e.ID)
	}

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, ids[3], limited[0].ID)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e, err := s.Save(ctx, sampleSession(time.Now().UTC(), "Bob"))
	require.NoError(t, err)

	deleted, err := s.Delete(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, deleted.ID)

	_, err = s.Get(ctx, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Delete(ctx, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDefaultPath(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "huntsplit", "history.db"), p)
}
