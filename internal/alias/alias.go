// Package alias maps patient context strings to stable pseudonymous
// identifiers so that no identifying data reaches the AI provider.
package alias

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// KV is the durable key-value store the alias map persists in. The mapping
// is local-only and never transmitted.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Service hands out patient aliases backed by an injected store.
type Service struct {
	store KV
	now   func() time.Time
}

// New returns a Service using the given store.
func New(store KV) *Service {
	return &Service{store: store, now: time.Now}
}

const (
	keyPrefix    = "patient-alias:"
	unknownAlias = "SF-UNKNOWN"
)

// GetOrCreate returns the alias for a patient context string, creating and
// persisting one on first sight. The same context string always yields the
// same alias for the life of the store. The context itself is stored only
// as a SHA-256 key, never as plaintext.
func (s *Service) GetOrCreate(contextString string) (string, error) {
	ctx := strings.TrimSpace(contextString)
	if ctx == "" {
		return unknownAlias, nil
	}

	key := keyFor(ctx)
	existing, ok, err := s.store.Get(key)
	if err != nil {
		return "", fmt.Errorf("alias.GetOrCreate: %w", err)
	}
	if ok {
		return existing, nil
	}

	generated := s.generate()
	if err := s.store.Set(key, generated); err != nil {
		return "", fmt.Errorf("alias.GetOrCreate: %w", err)
	}

	// Re-read rather than trust the local value: if a concurrent writer
	// won the first-write race, its alias is the stable one.
	stored, ok, err := s.store.Get(key)
	if err != nil {
		return "", fmt.Errorf("alias.GetOrCreate: %w", err)
	}
	if ok {
		return stored, nil
	}
	return generated, nil
}

func (s *Service) generate() string {
	stamp := strings.ToUpper(strconv.FormatInt(s.now().UnixMilli(), 36))
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("SF-%s-%s", stamp, random)
}

func keyFor(contextString string) string {
	sum := sha256.Sum256([]byte(contextString))
	return keyPrefix + fmt.Sprintf("%x", sum)
}
