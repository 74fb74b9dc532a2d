package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryOTPStore_IssueAndVerify(t *testing.T) {
	store := NewInMemoryOTPStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Issue(ctx, "mira@example.com", "482913", 10*time.Minute))

	ok, err := store.Verify(ctx, "mira@example.com", "482913")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryOTPStore_VerifyConsumesCode(t *testing.T) {
	store := NewInMemoryOTPStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Issue(ctx, "mira@example.com", "482913", 10*time.Minute))

	ok, err := store.Verify(ctx, "mira@example.com", "482913")
	require.NoError(t, err)
	require.True(t, ok)

	// A second attempt with the same code must fail
	ok, err = store.Verify(ctx, "mira@example.com", "482913")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryOTPStore_WrongCode(t *testing.T) {
	store := NewInMemoryOTPStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Issue(ctx, "mira@example.com", "482913", 10*time.Minute))

	ok, err := store.Verify(ctx, "mira@example.com", "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	// Wrong guesses do not consume the real code
	ok, err = store.Verify(ctx, "mira@example.com", "482913")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryOTPStore_UnknownEmail(t *testing.T) {
	store := NewInMemoryOTPStore()
	defer store.Close()

	ok, err := store.Verify(context.Background(), "nobody@example.com", "482913")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryOTPStore_ExpiredCode(t *testing.T) {
	store := NewInMemoryOTPStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Issue(ctx, "mira@example.com", "482913", -time.Second))

	ok, err := store.Verify(ctx, "mira@example.com", "482913")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Size())
}

func TestInMemoryOTPStore_ReissueReplacesCode(t *testing.T) {
	store := NewInMemoryOTPStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Issue(ctx, "mira@example.com", "111111", 10*time.Minute))
	require.NoError(t, store.Issue(ctx, "mira@example.com", "222222", 10*time.Minute))

	ok, err := store.Verify(ctx, "mira@example.com", "111111")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Verify(ctx, "mira@example.com", "222222")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryOTPStore_Invalidate(t *testing.T) {
	store := NewInMemoryOTPStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Issue(ctx, "mira@example.com", "482913", 10*time.Minute))
	require.NoError(t, store.Invalidate(ctx, "mira@example.com"))

	ok, err := store.Verify(ctx, "mira@example.com", "482913")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryOTPStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryOTPStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
