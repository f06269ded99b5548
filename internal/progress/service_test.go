package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streame/internal/remote"
	"streame/internal/shared"
)

func TestService_SetThenGet(t *testing.T) {
	store := remote.NewMemory()
	svc := NewService(store, nil)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "user1", 1399, shared.TVProgress{Season: 2, Episode: 5}))

	p, err := svc.Get(ctx, "user1", 1399)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 2, p.Season)
	assert.Equal(t, 5, p.Episode)
}

func TestService_SetOverwritesPointer(t *testing.T) {
	store := remote.NewMemory()
	svc := NewService(store, nil)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "user1", 1399, shared.TVProgress{Season: 1, Episode: 1}))
	require.NoError(t, svc.Set(ctx, "user1", 1399, shared.TVProgress{Season: 3, Episode: 7}))

	assert.Len(t, store.Rows(Table), 1, "one pointer row per (user, show)")

	p, err := svc.Get(ctx, "user1", 1399)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Season)
	assert.Equal(t, 7, p.Episode)
}

func TestService_GetMissingReturnsNil(t *testing.T) {
	svc := NewService(remote.NewMemory(), nil)

	p, err := svc.Get(context.Background(), "user1", 42)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestService_NotConfiguredIsSilent(t *testing.T) {
	svc := NewService(remote.NewDisabled(), nil)
	ctx := context.Background()

	assert.NoError(t, svc.Set(ctx, "user1", 1399, shared.TVProgress{Season: 1, Episode: 1}))

	p, err := svc.Get(ctx, "user1", 1399)
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestService_NetworkErrorPropagates(t *testing.T) {
	store := remote.NewMemory()
	store.Err = errors.New("remote down")
	svc := NewService(store, nil)

	_, err := svc.Get(context.Background(), "user1", 1399)
	assert.Error(t, err)
}

func TestService_NoUserIsNoOp(t *testing.T) {
	store := remote.NewMemory()
	svc := NewService(store, nil)
	ctx := context.Background()

	assert.NoError(t, svc.Set(ctx, "", 1399, shared.TVProgress{Season: 1, Episode: 1}))
	assert.Empty(t, store.Rows(Table))
}
