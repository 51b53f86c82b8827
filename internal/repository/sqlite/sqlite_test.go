package sqlite

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/game-portal/internal/dbx"
	"github.com/sakif/game-portal/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" gives each test a fresh database that disappears when the
// connection closes. Fast, isolated and no cleanup of files on disk.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(context.Background(), ":memory:")
	require.NoError(t, err, "failed to create test db")
	// t.Cleanup is like defer, but scoped to the test (and works in subtests).
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNew_RunsMigrations(t *testing.T) {
	db := newTestDB(t)

	n, err := db.Games().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NoError(t, db.Ping(context.Background()))
}

func TestNew_FileDatabase(t *testing.T) {
	path := t.TempDir() + "/portal.db"
	ctx := context.Background()

	db, err := New(ctx, path)
	require.NoError(t, err)
	_, err = db.Users().GetByUsername(ctx, "nobody")
	require.Error(t, err)
	require.NoError(t, db.Close())

	// Reopening an existing file must not re-run the initial migration.
	db, err = New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("disk I/O error")))
	assert.True(t, isUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: usuarios.email (2067)")))
}

func TestDSN_AppliesSettingsPerConnection(t *testing.T) {
	tests := []struct {
		path    string
		wantSep byte
	}{
		{path: "data/portal.db", wantSep: '?'},
		{path: ":memory:", wantSep: '?'},
		{path: "file:portal.db?mode=rwc", wantSep: '&'},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := dsn(tt.path)
			require.True(t, strings.HasPrefix(got, tt.path), got)
			assert.Equal(t, tt.wantSep, got[len(tt.path)])

			query, err := url.ParseQuery(got[len(tt.path)+1:])
			require.NoError(t, err)

			assert.ElementsMatch(t, connectionPragmas, query["_pragma"])
			assert.Equal(t, "immediate", query.Get("_txlock"))
		})
	}
}

// TestConcurrentWrites_FileDatabase runs many writers against a file database,
// where the pool holds several connections competing for SQLite's single
// write lock. Every write must wait for the lock rather than fail with
// SQLITE_BUSY.
func TestConcurrentWrites_FileDatabase(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx, t.TempDir()+"/portal.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	const writers = 64
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		if err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
	}

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			record(db.Users().Create(ctx, &model.User{
				Username: fmt.Sprintf("user%d", i),
				Email:    fmt.Sprintf("user%d@example.com", i),
				Password: "pw",
			}))

			g := &model.Game{Name: fmt.Sprintf("Game %d", i), Genre: "Puzzle", Platform: "Web", Year: 2000 + i}
			if err := db.Games().Create(ctx, g); err != nil {
				record(err)
				return
			}
			g.Description = "editado"
			record(db.Games().Update(ctx, g))

			// A transaction per writer as well, the way the seeder writes.
			record(dbx.WithTx(ctx, db.Conn(), nil, func(ctx context.Context, tx dbx.DBTX) error {
				return GamesTx(tx).Create(ctx, &model.Game{Name: fmt.Sprintf("Tx %d", i), Year: i})
			}))
		}(i)
	}
	wg.Wait()

	require.Empty(t, errs, "concurrent writes failed: %v", errs)

	n, err := db.Games().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2*writers, n)

	for i := 0; i < writers; i++ {
		_, err := db.Users().GetByUsername(ctx, fmt.Sprintf("user%d", i))
		assert.NoError(t, err)
	}
}
