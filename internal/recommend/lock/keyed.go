// Package lock serializes recommendation work per user.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tandem/pkg/platform/sentinel"
)

// KeyedMutex is an in-process lock keyed by string. Entries are removed
// once no holder or waiter references them.
type KeyedMutex struct {
	mu          sync.Mutex
	entries     map[string]*entry
	waitTimeout time.Duration
}

type entry struct {
	held chan struct{}
	refs int
}

type Option func(*KeyedMutex)

// WithWaitTimeout bounds how long Acquire waits. Zero waits until the
// caller's context ends.
func WithWaitTimeout(d time.Duration) Option {
	return func(k *KeyedMutex) {
		k.waitTimeout = d
	}
}

func NewKeyedMutex(opts ...Option) *KeyedMutex {
	k := &KeyedMutex{entries: make(map[string]*entry)}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Acquire blocks until key is free. On timeout the error wraps
// sentinel.ErrLockTimeout.
func (k *KeyedMutex) Acquire(ctx context.Context, key string) (func(), error) {
	e := k.ref(key)

	waitCtx, cancel := withWait(ctx, k.waitTimeout)
	defer cancel()

	select {
	case e.held <- struct{}{}:
	case <-waitCtx.Done():
		k.unref(key, e)
		return nil, waitError(ctx, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.held
			k.unref(key, e)
		})
	}, nil
}

// Len returns the number of live entries.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

func (k *KeyedMutex) ref(key string) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{held: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	return e
}

func (k *KeyedMutex) unref(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
}

func withWait(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// waitError prefers the caller's own cancellation over a lock timeout.
func waitError(parent context.Context, key string) error {
	if err := parent.Err(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %s", sentinel.ErrLockTimeout, key)
}

// Locker is the shape shared by every lock in this package.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

// Chain acquires every locker in order and releases them in reverse.
type Chain []Locker

func (c Chain) Acquire(ctx context.Context, key string) (func(), error) {
	releases := make([]func(), 0, len(c))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for _, l := range c {
		release, err := l.Acquire(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}
