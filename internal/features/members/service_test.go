package members

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_ResolveDisplayName(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStorage())

	require.NoError(t, svc.EnsureMember(ctx, 1, "alice", "Алиса", "Петрова", true))
	require.NoError(t, svc.EnsureMember(ctx, 2, "bob", "", "", true))
	require.NoError(t, svc.EnsureMember(ctx, 3, "", "", "", true))

	assert.Equal(t, "Алиса Петрова", svc.Resolve(ctx, 1))
	assert.Equal(t, "@bob", svc.Resolve(ctx, 2))
	assert.Equal(t, "3", svc.Resolve(ctx, 3))
	assert.Equal(t, "404", svc.Resolve(ctx, 404))
}

func TestService_EnsureMemberRefreshesName(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	svc := NewService(storage)

	require.NoError(t, svc.EnsureMember(ctx, 1, "alice", "Алиса", "", true))
	first, err := svc.GetByUserID(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, svc.EnsureMember(ctx, 1, "alice_new", "Алиса", "", true))
	second, err := svc.GetByUserID(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "alice_new", second.Username)
}
