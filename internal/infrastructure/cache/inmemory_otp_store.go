package cache

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/zenithstudio/backend/internal/domain/identity"
)

// otpEntry holds a pending code and its expiration
type otpEntry struct {
	code      string
	expiresAt time.Time
}

// InMemoryOTPStore implements identity.OTPStore using an in-memory map
// This is suitable for single-instance deployments and testing
type InMemoryOTPStore struct {
	mu        sync.RWMutex
	entries   map[string]otpEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryOTPStore creates a new in-memory OTP store
// It starts a background goroutine to clean up expired entries
func NewInMemoryOTPStore() *InMemoryOTPStore {
	store := &InMemoryOTPStore{
		entries:  make(map[string]otpEntry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Issue stores a code for the email, replacing any earlier one
func (s *InMemoryOTPStore) Issue(ctx context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[email] = otpEntry{
		code:      code,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Verify checks the code and consumes it on success so it cannot be
// replayed. A missing or expired code verifies as false, not an error.
func (s *InMemoryOTPStore) Verify(ctx context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entries[email]
	if !exists {
		return false, nil
	}

	if time.Now().After(e.expiresAt) {
		delete(s.entries, email)
		return false, nil
	}

	if subtle.ConstantTimeCompare([]byte(e.code), []byte(code)) != 1 {
		return false, nil
	}

	delete(s.entries, email)
	return true, nil
}

// Invalidate discards any pending code for the email
func (s *InMemoryOTPStore) Invalidate(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, email)
	return nil
}

// Close stops the cleanup goroutine and releases resources
// Safe to call multiple times
func (s *InMemoryOTPStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (s *InMemoryOTPStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired entries from the store
func (s *InMemoryOTPStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for email, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, email)
		}
	}
}

// Size returns the number of entries in the store (for testing/monitoring)
func (s *InMemoryOTPStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure InMemoryOTPStore implements identity.OTPStore
var _ identity.OTPStore = (*InMemoryOTPStore)(nil)
