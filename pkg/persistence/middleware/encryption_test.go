package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/excelauto/pkg/adapters/memory"
	"github.com/aretw0/excelauto/pkg/domain"
	"github.com/aretw0/excelauto/pkg/persistence/middleware"
	"github.com/aretw0/excelauto/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func wrap(t *testing.T, next ports.SessionStore, cfg middleware.EncryptionConfig) ports.SessionStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return mw(next)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	store := wrap(t, memory.NewStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunSessionStoreContract(t, store)
}

func TestEncryptionMiddleware_HidesPath(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	secure := wrap(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})

	require.NoError(t, secure.Save(ctx, domain.NewSession("s1", "/home/ana/salaries.xlsx")))

	stored, err := underlying.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", stored.ID)
	assert.True(t, strings.HasPrefix(stored.WorkbookPath, "enc:v1:"))
	assert.NotContains(t, stored.WorkbookPath, "salaries")

	loaded, err := secure.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "/home/ana/salaries.xlsx", loaded.WorkbookPath)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)

	require.NoError(t, wrap(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey}).
		Save(ctx, domain.NewSession("s1", "/a.xlsx")))

	_, err := wrap(t, underlying, middleware.EncryptionConfig{ActiveKey: newKey}).Load(ctx, "s1")
	assert.Error(t, err, "new key alone can't read old sessions")

	rotated := wrap(t, underlying, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}})
	loaded, err := rotated.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "/a.xlsx", loaded.WorkbookPath)
}

func TestEncryptionMiddleware_Tampering(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	secure := wrap(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})

	require.NoError(t, underlying.Save(ctx, domain.NewSession("plain", "/a.xlsx")))
	_, err := secure.Load(ctx, "plain")
	assert.ErrorIs(t, err, middleware.ErrNotEncrypted)

	// An envelope copied to another session ID fails authentication.
	require.NoError(t, secure.Save(ctx, domain.NewSession("victim", "/secret.xlsx")))
	stolen, err := underlying.Load(ctx, "victim")
	require.NoError(t, err)
	stolen.ID = "attacker"
	require.NoError(t, underlying.Save(ctx, stolen))

	_, err = secure.Load(ctx, "attacker")
	assert.Error(t, err)

	_, err = secure.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestNewEncryptionMiddleware_KeySize(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.Error(t, err)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.Error(t, err)
}
