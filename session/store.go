package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/salonhub/admincore/vault"
)

// Store coordinates the in-memory identity with its encrypted envelope in the
// vault. One Store owns one envelope key; all mutations go through it, so
// persistence is strictly last-write-wins.
type Store struct {
	persist *vault.Store
	key     string
	logger  *slog.Logger

	mu       sync.RWMutex
	identity *Identity
	ready    bool
	gen      uint64
	subs     map[int]func(View)
	nextSub  int

	readyCh     chan struct{}
	hydrateOnce sync.Once
	persistWG   sync.WaitGroup
	persistMu   sync.Mutex
	hydrateHook func(restored bool)
}

// StoreOption configures a [Store].
type StoreOption func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHydrationHook registers fn to run once when hydration completes.
// restored reports whether a persisted identity was adopted.
func WithHydrationHook(fn func(restored bool)) StoreOption {
	return func(s *Store) {
		s.hydrateHook = fn
	}
}

// NewStore creates a session store persisting under key in the given vault.
// The store starts not ready; call [Store.Hydrate] once at startup.
func NewStore(persist *vault.Store, key string, opts ...StoreOption) *Store {
	s := &Store{
		persist: persist,
		key:     key,
		logger:  slog.Default(),
		subs:    map[int]func(View){},
		readyCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetIdentity replaces the in-memory identity and schedules an encrypted
// persist of the full state. Subscribers observe the new identity before
// SetIdentity returns; durability is eventual (bounded by the in-flight
// write, in practice well before the next process start).
func (s *Store) SetIdentity(ctx context.Context, identity *Identity) {
	s.mu.Lock()
	s.identity = identity.Clone()
	s.gen++
	gen := s.gen
	env := s.envelopeLocked()
	view := s.viewLocked()
	s.mu.Unlock()

	s.notify(view)

	s.persistWG.Add(1)
	go func() {
		defer s.persistWG.Done()

		// persistMu serializes envelope writes; the generation check under
		// it makes a superseded write a no-op instead of a late overwrite.
		s.persistMu.Lock()
		defer s.persistMu.Unlock()

		if s.currentGen() != gen {
			return
		}
		if err := s.persist.Write(context.WithoutCancel(ctx), s.key, env); err != nil {
			s.logger.ErrorContext(ctx, "session persist failed", "error", err)
		}
	}()
}

// Clear drops the identity from memory and removes the persisted envelope
// immediately. After Clear returns without error, no residual encrypted state
// remains and a fresh process rehydrates to "no identity".
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.identity = nil
	s.gen++
	view := s.viewLocked()
	s.mu.Unlock()

	s.notify(view)

	// Taking persistMu here fences out any in-flight envelope write: it
	// either lands before the remove or is skipped by its generation check.
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	return s.persist.Remove(ctx, s.key)
}

// Hydrate runs the rehydration protocol once per Store lifetime: read the
// envelope back through the vault, adopt a recovered identity unless a login
// already landed, then flip Ready. The flip happens on a separate goroutine
// rather than inline so callers that subscribe right after Hydrate still
// observe the transition.
func (s *Store) Hydrate(ctx context.Context) {
	s.hydrateOnce.Do(func() {
		go s.hydrate(ctx)
	})
}

func (s *Store) hydrate(ctx context.Context) {
	var env envelope
	found := s.persist.Read(ctx, s.key, &env)
	if found && env.Version != envelopeVersion {
		s.logger.WarnContext(ctx, "session envelope version mismatch, discarding",
			"version", env.Version)
		found = false
	}

	restored := false
	s.mu.Lock()
	if found && s.identity == nil {
		s.identity = env.State.Identity
		restored = env.State.Identity != nil
	}
	s.ready = true
	view := s.viewLocked()
	s.mu.Unlock()

	close(s.readyCh)
	if s.hydrateHook != nil {
		s.hydrateHook(restored)
	}
	s.notify(view)
}

// WaitReady blocks until the rehydration protocol has completed or ctx is
// done. It is the synchronous companion to Subscribe for callers that need a
// settled view before serving.
func (s *Store) WaitReady(ctx context.Context) error {
	select {
	case <-s.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready reports whether rehydration has completed. It transitions false→true
// exactly once and never reverts.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Identity returns a copy of the current identity, or nil when absent.
func (s *Store) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Clone()
}

// View derives the gating façade: Loading is true until hydration completes.
func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

// Subscribe registers fn for every state change, including the readiness
// flip. The returned cancel removes the subscription.
func (s *Store) Subscribe(fn func(View)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Flush blocks until all scheduled persists have finished. Intended for
// shutdown paths and tests; normal operation never needs it.
func (s *Store) Flush() {
	s.persistWG.Wait()
}

func (s *Store) viewLocked() View {
	return View{Identity: s.identity.Clone(), Loading: !s.ready}
}

func (s *Store) envelopeLocked() envelope {
	return envelope{
		State:   envelopeState{Identity: s.identity.Clone(), Ready: s.ready},
		Version: envelopeVersion,
	}
}

func (s *Store) currentGen() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

func (s *Store) notify(view View) {
	s.mu.RLock()
	fns := make([]func(View), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(view)
	}
}
