package service

import (
	"bitwise74/health-portal/internal/model"
	"bitwise74/health-portal/internal/session"
	"bitwise74/health-portal/pkg/middleware"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestUploaderSave(t *testing.T) {
	dir := t.TempDir()
	u, err := NewUploader(filepath.Join(dir, "uploads"), true)
	require.NoError(t, err)
	require.True(t, u.Enabled())

	saved, err := u.Save(bytes.NewReader(pngHeader), "scan.png")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(saved.Name, "_scan.png"))
	assert.Len(t, saved.Name, len("0123456789_scan.png"))
	assert.EqualValues(t, len(pngHeader), saved.Size)
	assert.Equal(t, "image/png", saved.MIME)
	assert.Equal(t, u.Dir, filepath.Dir(saved.Path))

	b, err := os.ReadFile(saved.Path)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, b)
}

func TestUploaderSameNameDoesNotOverwrite(t *testing.T) {
	u, err := NewUploader(t.TempDir(), true)
	require.NoError(t, err)

	first, err := u.Save(strings.NewReader("first"), "notes.txt")
	require.NoError(t, err)
	second, err := u.Save(strings.NewReader("second"), "notes.txt")
	require.NoError(t, err)

	assert.NotEqual(t, first.Name, second.Name)

	b, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(b))
	assert.True(t, strings.HasPrefix(first.MIME, "text/plain"))
}

func TestUploaderRejectsEscapingNames(t *testing.T) {
	dir := t.TempDir()
	u, err := NewUploader(filepath.Join(dir, "uploads"), true)
	require.NoError(t, err)

	for _, name := range []string{"../evil.txt", "a/b.txt", ""} {
		_, err := u.path(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}

	assert.ErrorIs(t, u.Remove("../outside.txt"), ErrInvalidName)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUploaderRemove(t *testing.T) {
	u, err := NewUploader(t.TempDir(), true)
	require.NoError(t, err)

	saved, err := u.Save(strings.NewReader("bye"), "bye.txt")
	require.NoError(t, err)

	require.NoError(t, u.Remove(saved.Name))
	_, err = os.Stat(saved.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.NoError(t, u.Remove(saved.Name), "removing twice is fine")
}

func TestDisabledUploaderWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	u, err := NewUploader(dir, false)
	require.NoError(t, err)
	assert.False(t, u.Enabled())

	_, err = u.Save(strings.NewReader("data"), "file.txt")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = os.Stat(dir)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

type fakeStore struct {
	session.Store
	calls int
}

func (f *fakeStore) DeleteExpired(context.Context, time.Time) (int64, error) {
	f.calls++
	return 3, nil
}

func TestSessionCleanup(t *testing.T) {
	store := &fakeStore{}
	SessionCleanup(store)
	assert.Equal(t, 1, store.calls)
}

func TestStartCleanup(t *testing.T) {
	store := &fakeStore{}
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{PerMinute: 5})

	c, err := StartCleanup("@every 1h", store, limiter)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)
	<-c.Stop().Done()

	_, err = StartCleanup("not a schedule", store, nil)
	assert.Error(t, err)
}

func TestSessionCleanupWithMemoryStore(t *testing.T) {
	store := session.NewMemoryStore()
	defer store.Close()

	require.NoError(t, store.Create(context.Background(), &model.Session{Token: "t", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}))
	SessionCleanup(store)

	_, err := store.Get(context.Background(), "t")
	assert.NoError(t, err)
}
