package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Store encrypts JSON-serialized values into a [Medium].
type Store struct {
	medium Medium
	sealer *sealer
	logger *slog.Logger

	// onDiscard fires whenever a present value is discarded as unreadable.
	// Absence is not a discard.
	onDiscard func(key string, err error)
}

// Option configures a [Store].
type Option func(*Store)

// WithLogger sets the logger used for discarded-value reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDiscardHook registers a callback fired when Read discards an unreadable
// value. Used to surface cache-corruption counters without coupling this
// package to metrics.
func WithDiscardHook(hook func(key string, err error)) Option {
	return func(s *Store) {
		s.onDiscard = hook
	}
}

// NewStore creates a vault over medium. secret derives the AES key; it is an
// obfuscation secret, typically compiled into the client.
func NewStore(medium Medium, secret string, opts ...Option) (*Store, error) {
	if medium == nil {
		return nil, errors.New("vault medium required")
	}

	sl, err := newSealer(secret)
	if err != nil {
		return nil, err
	}

	s := &Store{
		medium: medium,
		sealer: sl,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Write serializes value to JSON, seals it, and stores it under key,
// overwriting any existing value.
func (s *Store) Write(ctx context.Context, key string, value any) error {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("vault write %q: %w", key, err)
	}

	sealed, err := s.sealer.seal(plaintext)
	if err != nil {
		return fmt.Errorf("vault write %q: %w", key, err)
	}

	if err := s.medium.Set(ctx, key, sealed); err != nil {
		return fmt.Errorf("vault write %q: %w", key, err)
	}
	return nil
}

// Read fetches and decrypts the value at key into out, returning true when a
// value was recovered. Every failure mode — absent key, unreachable medium,
// corrupt ciphertext, wrong secret, malformed plaintext — returns false
// without an error. Unreadable present values are logged and reported through
// the discard hook.
func (s *Store) Read(ctx context.Context, key string, out any) bool {
	sealed, err := s.medium.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNoValue) {
			s.logger.WarnContext(ctx, "vault medium read failed, treating as absent",
				"key", key, "error", err)
		}
		return false
	}

	plaintext, err := s.sealer.open(sealed)
	if err != nil {
		s.discard(ctx, key, fmt.Errorf("decrypt: %w", err))
		return false
	}

	if err := json.Unmarshal(plaintext, out); err != nil {
		s.discard(ctx, key, fmt.Errorf("parse: %w", err))
		return false
	}
	return true
}

// Remove deletes the value at key. Removing an absent key succeeds.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.medium.Delete(ctx, key); err != nil {
		return fmt.Errorf("vault remove %q: %w", key, err)
	}
	return nil
}

func (s *Store) discard(ctx context.Context, key string, err error) {
	s.logger.WarnContext(ctx, "vault value unreadable, discarding",
		"key", key, "error", err)
	if s.onDiscard != nil {
		s.onDiscard(key, err)
	}
}
