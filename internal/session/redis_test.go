package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NV18Codes/khaddar-storefront/internal/domain"
)

// setupTestRedis creates a miniredis server and returns a RedisStore instance
func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, 10*time.Minute), mr
}

func TestRedisStore_SetAuthRoundTrip(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	auth := domain.Session{
		AuthToken:    "tok-1",
		RefreshToken: "ref-1",
		User:         &domain.User{Email: "asha@example.com", Name: "Asha"},
	}
	require.NoError(t, store.SetAuth(ctx, "sid-1", auth))

	got, err := store.Auth(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got.AuthToken)
	assert.Equal(t, "ref-1", got.RefreshToken)
	require.NotNil(t, got.User)
	assert.Equal(t, "asha@example.com", got.User.Email)

	email, err := store.Email(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", email)
}

func TestRedisStore_EmptyFieldDeletesKey(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	full := domain.Session{
		AuthToken:    "tok-1",
		RefreshToken: "ref-1",
		User:         &domain.User{Email: "asha@example.com"},
	}
	require.NoError(t, store.SetAuth(ctx, "sid-1", full))
	require.True(t, mr.Exists(sessionKey("sid-1", FieldRefresh)))

	// a write without a refresh token removes the stored key
	require.NoError(t, store.SetAuth(ctx, "sid-1", domain.Session{
		AuthToken: "tok-2",
		User:      &domain.User{Email: "asha@example.com"},
	}))

	assert.False(t, mr.Exists(sessionKey("sid-1", FieldRefresh)))
	got, err := store.Auth(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", got.AuthToken)
	assert.Empty(t, got.RefreshToken)
}

func TestRedisStore_SetPurgesLegacyKeys(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	// keys left behind by the old persistent keyspace
	mr.Set(legacyKey("sid-1", FieldToken), "stale")
	mr.Set(legacyKey("sid-1", FieldUser), "stale")

	require.NoError(t, store.SetAuth(ctx, "sid-1", domain.Session{AuthToken: "tok-1"}))

	assert.False(t, mr.Exists(legacyKey("sid-1", FieldToken)))
	assert.False(t, mr.Exists(legacyKey("sid-1", FieldUser)))
}

func TestRedisStore_CorruptUserReadsAsAbsent(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	mr.Set(sessionKey("sid-1", FieldToken), "tok-1")
	mr.Set(sessionKey("sid-1", FieldUser), "{not json")

	got, err := store.Auth(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got.AuthToken)
	assert.Nil(t, got.User)
}

func TestRedisStore_CartRoundTrip(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	cart := domain.Cart{Items: []domain.CartItem{
		{ProductID: "p1", Size: "M", Color: "indigo", Quantity: 2, Price: 1200},
	}}
	require.NoError(t, store.SetCart(ctx, "sid-1", cart))

	got, err := store.Cart(ctx, "sid-1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)

	require.NoError(t, store.ClearCart(ctx, "sid-1"))
	assert.False(t, mr.Exists(sessionKey("sid-1", FieldCart)))

	got, err = store.Cart(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestRedisStore_CorruptCartReadsAsEmpty(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	mr.Set(sessionKey("sid-1", FieldCart), "][")

	got, err := store.Cart(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestRedisStore_AdminAuthIsSeparate(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.SetAuth(ctx, "sid-1", domain.Session{AuthToken: "shopper-tok"}))

	admin, err := store.AdminAuth(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, admin.AuthToken)

	require.NoError(t, store.SetAdminAuth(ctx, "sid-1", domain.Session{
		AuthToken: "admin-tok",
		User:      &domain.User{Email: "ops@khaddar.in"},
	}))

	admin, err = store.AdminAuth(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "admin-tok", admin.AuthToken)

	// shopper auth untouched
	shopper, err := store.Auth(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "shopper-tok", shopper.AuthToken)
}

func TestRedisStore_Clear(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.SetAuth(ctx, "sid-1", domain.Session{
		AuthToken: "tok-1",
		User:      &domain.User{Email: "asha@example.com"},
	}))
	require.NoError(t, store.SetCart(ctx, "sid-1", domain.Cart{Items: []domain.CartItem{{ProductID: "p1", Quantity: 1}}}))

	require.NoError(t, store.Clear(ctx, "sid-1"))

	for _, field := range allFields {
		assert.False(t, mr.Exists(sessionKey("sid-1", field)), "field %s should be gone", field)
	}
}
