package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/excelauto/pkg/adapters/memory"
	"github.com/aretw0/excelauto/pkg/domain"
	"github.com/aretw0/excelauto/pkg/ports"
	"github.com/aretw0/excelauto/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SelectAndCurrent(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(memory.NewStore())

	_, err := mgr.Current(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNoWorkbook)

	s, err := mgr.Select(ctx, "s1", "/data/a.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)

	_, err = mgr.Select(ctx, "s2", "/data/b.xlsx")
	require.NoError(t, err)

	path, err := mgr.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "/data/a.xlsx", path)

	// Re-selecting replaces the workbook.
	_, err = mgr.Select(ctx, "s1", "/data/c.xlsx")
	require.NoError(t, err)
	path, err = mgr.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "/data/c.xlsx", path)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "s2"}, ids)

	require.NoError(t, mgr.Forget(ctx, "s1"))
	_, err = mgr.Current(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNoWorkbook)
}

func TestManager_WithSessionWorkbook_NoWorkbook(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	called := false
	err := mgr.WithSessionWorkbook(context.Background(), "nobody", func(context.Context, string) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrNoWorkbook)
	assert.False(t, called)
}

func TestManager_WorkbookLockSerializes(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// "./book.xlsx" and "book.xlsx" are the same file.
			path := "book.xlsx"
			if i%2 == 0 {
				path = "./book.xlsx"
			}
			err := mgr.WithWorkbookLock(ctx, path, func(context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

type fakeLocker struct {
	mu       sync.Mutex
	locked   []string
	unlocked []string
	ttl      time.Duration
	err      error
}

func (f *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	f.locked = append(f.locked, key)
	f.ttl = ttl
	f.mu.Unlock()
	return func(context.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.unlocked = append(f.unlocked, key)
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &fakeLocker{}
	mgr := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(5*time.Second))

	err := mgr.WithWorkbookLock(context.Background(), "/data/a.xlsx", func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/a.xlsx"}, locker.locked)
	assert.Equal(t, []string{"/data/a.xlsx"}, locker.unlocked)
	assert.Equal(t, 5*time.Second, locker.ttl)

	locker.err = errors.New("redis down")
	err = mgr.WithWorkbookLock(context.Background(), "/data/a.xlsx", func(context.Context) error {
		t.Fatal("fn must not run without the lock")
		return nil
	})
	assert.ErrorContains(t, err, "redis down")
}
