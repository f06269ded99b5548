package usermedia

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streame/internal/remote"
	"streame/internal/shared"
)

func watchlistItem(tmdbID int64) Item {
	return Item{
		TMDBID: tmdbID,
		Type:   shared.MediaTypeMovie,
		Title:  "Some Movie",
	}
}

func TestService_AddListRemove(t *testing.T) {
	svc := NewService(remote.NewMemory(), nil)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "user1", watchlistItem(550), ListWatchlist))
	require.NoError(t, svc.Add(ctx, "user1", watchlistItem(603), ListWatchlist))

	items, err := svc.List(ctx, "user1", ListWatchlist)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	require.NoError(t, svc.Remove(ctx, "user1", 550, ListWatchlist))

	items, err = svc.List(ctx, "user1", ListWatchlist)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(603), items[0].TMDBID)
}

func TestService_AddTwiceIsOneEntry(t *testing.T) {
	store := remote.NewMemory()
	svc := NewService(store, nil)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "user1", watchlistItem(550), ListWatchlist))
	require.NoError(t, svc.Add(ctx, "user1", watchlistItem(550), ListWatchlist))

	assert.Len(t, store.Rows(Table), 1)
}

func TestService_NotConfiguredReadsEmpty(t *testing.T) {
	svc := NewService(remote.NewDisabled(), nil)
	ctx := context.Background()

	assert.NoError(t, svc.Add(ctx, "user1", watchlistItem(550), ListWatchlist))

	items, err := svc.List(ctx, "user1", ListWatchlist)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestService_InvalidTypeRejected(t *testing.T) {
	svc := NewService(remote.NewMemory(), nil)

	item := watchlistItem(550)
	item.Type = "book"
	assert.Error(t, svc.Add(context.Background(), "user1", item, ListWatchlist))
}

func TestService_NoUserIsNoOp(t *testing.T) {
	store := remote.NewMemory()
	svc := NewService(store, nil)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "", watchlistItem(550), ListWatchlist))
	assert.Empty(t, store.Rows(Table))

	items, err := svc.List(ctx, "", ListWatchlist)
	require.NoError(t, err)
	assert.Empty(t, items)
}
