package locker

import (
	"context"
	"sync"
)

// LocalLocker keeps leases in process memory. Used when Redis is not configured;
// it only excludes requests served by the same instance.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]uint64
	seq  uint64
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]uint64)}
}

func (l *LocalLocker) TryLock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[key]; busy {
		return nil, ErrLocked
	}
	l.seq++
	token := l.seq
	l.held[key] = token

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if l.held[key] == token {
				delete(l.held, key)
			}
		})
	}, nil
}
