/*
Copyright 2026, Aleksei Sviridkin.

SPDX-License-Identifier: BSD-3-Clause
*/

package inventory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexfrei/plugcheck/pkg/requirement"
	"github.com/lexfrei/plugcheck/pkg/version"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "inventory.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func TestOpen_RequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open("  ")
	require.Error(t, err)
}

func TestStore_UpsertGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	ts := time.Date(2016, 1, 1, 11, 0, 0, 0, time.UTC)
	require.NoError(t, store.Upsert(ctx, requirement.KnownPlugin{
		Name:        "SwagBundle",
		Version:     version.MustParse("2.5"),
		Active:      true,
		InstalledAt: &ts,
	}))

	got, err := store.Get(ctx, "SwagBundle")
	require.NoError(t, err)
	assert.Equal(t, "2.5", got.Version.String())
	assert.True(t, got.Active)
	require.NotNil(t, got.InstalledAt)
	assert.True(t, got.InstalledAt.Equal(ts))

	// Upsert replaces the row.
	require.NoError(t, store.Upsert(ctx, requirement.KnownPlugin{
		Name:    "SwagBundle",
		Version: version.MustParse("3.0"),
	}))

	got, err = store.Get(ctx, "SwagBundle")
	require.NoError(t, err)
	assert.Equal(t, "3.0", got.Version.String())
	assert.False(t, got.Active)
	assert.Nil(t, got.InstalledAt)
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()

	_, err := openTestStore(t).Get(context.Background(), "Nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpsertRejectsInvalid(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	assert.Error(t, store.Upsert(ctx, requirement.KnownPlugin{Version: version.MustParse("1.0")}))
	assert.Error(t, store.Upsert(ctx, requirement.KnownPlugin{Name: "NoVersion"}))
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Upsert(ctx, requirement.KnownPlugin{Name: "A", Version: version.MustParse("1.0")}))
	require.NoError(t, store.Delete(ctx, "A"))

	assert.ErrorIs(t, store.Delete(ctx, "A"), ErrNotFound)
}

func TestStore_ImportListSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	ts := time.Date(2016, 1, 1, 11, 0, 0, 0, time.UTC)
	require.NoError(t, store.Import(ctx, []requirement.KnownPlugin{
		{Name: "SwagLiveShopping", Version: version.MustParse("2.1.1"), Active: true, InstalledAt: &ts},
		{Name: "SwagBundle", Version: version.MustParse("2.1.1"), Active: true, InstalledAt: &ts},
	}))

	plugins, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, plugins, 2)
	assert.Equal(t, "SwagBundle", plugins[0].Name, "list is ordered by name")

	snapshot, err := store.Snapshot(ctx)
	require.NoError(t, err)

	meta := requirement.Metadata{
		RequiredPlugins: []requirement.RequiredPlugin{
			{Name: "SwagBundle", MinVersion: version.MustParse("2.0")},
			{Name: "SwagLiveShopping"},
		},
	}
	assert.NoError(t, requirement.Validate(meta, version.MustParse("5.2"), snapshot))
}

func TestStore_ImportIsAtomic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	err := store.Import(ctx, []requirement.KnownPlugin{
		{Name: "Good", Version: version.MustParse("1.0")},
		{Name: ""},
	})
	require.Error(t, err)

	plugins, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, plugins)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "inventory.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Upsert(ctx, requirement.KnownPlugin{Name: "A", Version: version.MustParse("1.0")}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)

	defer reopened.Close()

	got, err := reopened.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "1.0", got.Version.String())
}
