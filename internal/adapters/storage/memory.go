package storage

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mailmint/inbound/internal/core"
)

// StoredResult pairs an email with its classification outcome.
type StoredResult struct {
	Email          *core.ProcessedEmail
	Classification *core.ClassificationResult
}

// MemoryStore is an in-memory implementation of core.EmailStore, used by the
// CLI and in tests. First write wins per message id.
type MemoryStore struct {
	results map[string]*StoredResult
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		results: make(map[string]*StoredResult),
		logger:  logger,
	}
}

// SaveResult stores the result keyed by message id.
func (s *MemoryStore) SaveResult(ctx context.Context, email *core.ProcessedEmail, result *core.ClassificationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.results[email.MessageID]; exists {
		return nil
	}
	s.results[email.MessageID] = &StoredResult{Email: email, Classification: result}
	return nil
}

// Get returns the stored result for a message id, if any.
func (s *MemoryStore) Get(messageID string) (*StoredResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.results[messageID]
	return r, ok
}

// Len returns the number of stored results.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}
