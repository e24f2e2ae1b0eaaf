package session

import (
	"bitwise74/health-portal/db"
	"bitwise74/health-portal/internal/model"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

// stores returns every Store implementation, each backed by a fresh user with ID 1
func stores(t *testing.T) map[string]Store {
	t.Helper()

	d, err := db.New(fmt.Sprintf("sqlite:///%s", filepath.Join(t.TempDir(), "portal.db")))
	require.NoError(t, err)
	require.NoError(t, d.Create(&model.User{
		ID:                  1,
		Email:               "s@example.com",
		PasswordHash:        "hash",
		AgeGroup:            model.AgeGroup35To49,
		BirthSex:            model.BirthSexFemale,
		NumeracyScore:       model.NumeracyHard,
		HealthLiteracyLevel: model.HealthLiteracyLow,
		PreferredAccessMode: model.AccessAppOnly,
	}).Error)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	mem := NewMemoryStore()
	t.Cleanup(func() { mem.Close() })

	return map[string]Store{
		"db":     NewDBStore(d),
		"redis":  NewRedisStore(rdb),
		"memory": mem,
	}
}

func TestManagerLifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			m := NewManager(store, secret, time.Hour)

			value, expires, err := m.Login(ctx, 1)
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

			uid, err := m.Resolve(ctx, value)
			require.NoError(t, err)
			assert.EqualValues(t, 1, uid)

			require.NoError(t, m.Logout(ctx, value))

			_, err = m.Resolve(ctx, value)
			assert.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestManagerRejectsBadCookies(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			m := NewManager(store, secret, time.Hour)

			value, _, err := m.Login(ctx, 1)
			require.NoError(t, err)

			other := NewManager(store, "another-secret", time.Hour)
			_, err = other.Resolve(ctx, value)
			assert.ErrorIs(t, err, ErrNoSession, "signed with a different key")

			parts := strings.Split(value, ".")
			require.Len(t, parts, 3)
			_, err = m.Resolve(ctx, parts[0]+"."+parts[1]+".invalid")
			assert.ErrorIs(t, err, ErrNoSession, "tampered signature")

			_, err = m.Resolve(ctx, "")
			assert.ErrorIs(t, err, ErrNoSession)

			forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
				ID:        "never-stored",
				Subject:   "1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}).SignedString([]byte(secret))
			require.NoError(t, err)

			_, err = m.Resolve(ctx, forged)
			assert.ErrorIs(t, err, ErrNoSession, "valid signature but unknown session")
		})
	}
}

func TestManagerRejectsSubjectMismatch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	m := NewManager(store, secret, time.Hour)
	require.NoError(t, store.Create(ctx, &model.Session{Token: "tok", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}))

	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        "tok",
		Subject:   "2",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = m.Resolve(ctx, value)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManagerExpiry(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			m := NewManager(store, secret, time.Hour)

			value, _, err := m.Login(ctx, 1)
			require.NoError(t, err)

			m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

			_, err = m.Resolve(ctx, value)
			assert.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestDBStoreDeleteExpired(t *testing.T) {
	ctx := context.Background()
	store := stores(t)["db"]

	require.NoError(t, store.Create(ctx, &model.Session{Token: "old", UserID: 1, ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, store.Create(ctx, &model.Session{Token: "new", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}))

	_, err := store.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := store.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = store.Get(ctx, "new")
	assert.NoError(t, err)
}

func TestRedisStoreKeysExpire(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	store := NewRedisStore(rdb)
	require.NoError(t, store.Create(ctx, &model.Session{Token: "tok", UserID: 7, CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Minute)}))

	sess, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.EqualValues(t, 7, sess.UserID)
	assert.True(t, mr.Exists("session:tok"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("session:tok"))

	_, err = store.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDeleteUnknown(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	assert.NoError(t, store.Delete(context.Background(), "missing"))
}
