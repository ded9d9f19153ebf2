package redisstore

import (
	"context"
	"testing"
	"time"

	"credit-preapproval/internal/domain/preapproval"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestSessionStore_PutAndRead(t *testing.T) {
	mr, rdb := newRedis(t)
	store := NewSessionStore(rdb, time.Hour)
	ctx := context.Background()

	profile := &preapproval.Profile{FirstName: "Thabo", Phone: "+26658123456", AnnualIncome: 60000}
	require.NoError(t, store.Put(ctx, "s1", "tok-1", profile))

	// stored under the keys sign-in uses
	assert.Equal(t, "tok-1", mustGet(t, mr, "session:s1:token"))
	assert.JSONEq(t, `{"firstName":"Thabo","lastName":"","email":"","phone":"+26658123456","employmentStatus":"","annualIncome":60000}`,
		mustGet(t, mr, "session:s1:userData"))
	assert.Equal(t, time.Hour, mr.TTL("session:s1:token"))

	sess := store.Session("s1")
	tok, err := sess.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	got, err := sess.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile, got)
}

func TestSessionStore_EmptySession(t *testing.T) {
	_, rdb := newRedis(t)
	sess := NewSessionStore(rdb, 0).Session("nobody")
	ctx := context.Background()

	tok, err := sess.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	p, err := sess.Profile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSessionStore_CorruptProfile(t *testing.T) {
	mr, rdb := newRedis(t)
	require.NoError(t, mr.Set("session:s1:userData", "{not json"))

	_, err := NewSessionStore(rdb, 0).Session("s1").Profile(context.Background())
	assert.Error(t, err)
}

func TestSessionStore_CurrentApplication(t *testing.T) {
	_, rdb := newRedis(t)
	store := NewSessionStore(rdb, time.Hour)
	ctx := context.Background()

	_, err := store.CurrentApplication(ctx, "s1")
	assert.ErrorIs(t, err, preapproval.ErrNoCurrentApplication)

	app := preapproval.CurrentApplication{ID: "42", Status: "Pending", Lender: "General Application", Amount: 20000, Purpose: "Personal"}
	require.NoError(t, store.Session("s1").SaveCurrentApplication(ctx, app))

	got, err := store.CurrentApplication(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, app, *got)
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err, key)
	return v
}
