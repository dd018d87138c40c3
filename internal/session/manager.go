// Package session keeps the live rounds served over the API.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/engine"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrRoundNotFound is returned for unknown or deleted round ids.
var ErrRoundNotFound = errors.New("round not found")

// SeedSource provides the active server seed.
type SeedSource interface {
	Current() (string, error)
}

// Deps are shared by every round the manager creates.
type Deps struct {
	Seeds      SeedSource
	ClientSeed string
	// StartNonce is the last nonce already used; the first round gets StartNonce+1.
	StartNonce uint64
	Recorder   round.Recorder
	Translator round.Translator
	Audio      round.AudioSink
	Clock      round.Clock
	Logger     *zap.Logger
}

// Manager owns live rounds keyed by id.
type Manager struct {
	mu     sync.RWMutex
	rounds map[string]*round.Round
	nonce  uint64
	closed bool

	deps   Deps
	clicks singleflight.Group
	logger *zap.Logger
}

// NewManager creates an empty manager.
func NewManager(deps Deps) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.ClientSeed == "" {
		deps.ClientSeed = "numfind"
	}
	return &Manager{
		rounds: make(map[string]*round.Round),
		nonce:  deps.StartNonce,
		deps:   deps,
		logger: logger,
	}
}

// Create starts a round for cfg. clientSeed overrides the default client seed
// when non-empty.
func (m *Manager) Create(cfg round.Config, clientSeed string) (*round.Round, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if m.deps.Seeds == nil {
		return nil, errors.New("session: no seed source")
	}
	serverSeed, err := m.deps.Seeds.Current()
	if err != nil {
		return nil, fmt.Errorf("session: server seed: %w", err)
	}
	if clientSeed == "" {
		clientSeed = m.deps.ClientSeed
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, errors.New("session: manager closed")
	}
	m.nonce++
	nonce := m.nonce
	m.mu.Unlock()

	id := uuid.New().String()
	seeds := engine.Seeds{Server: serverSeed, Client: clientSeed}
	r, err := round.New(cfg, round.Deps{
		ID:         id,
		Clock:      m.deps.Clock,
		Source:     engine.NewStream(seeds, nonce),
		Audio:      m.deps.Audio,
		Translator: m.deps.Translator,
		Recorder:   m.deps.Recorder,
		Logger:     m.logger,
		Seed: round.SeedRef{
			ServerSeedHash: engine.HashServerSeed(serverSeed),
			ClientSeed:     clientSeed,
			Nonce:          nonce,
		},
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.rounds[id] = r
	m.mu.Unlock()

	r.Start()
	m.logger.Debug("round created", zap.String("round_id", id), zap.Uint64("nonce", nonce))
	return r, nil
}

// Get returns the round with id.
func (m *Manager) Get(id string) (*round.Round, error) {
	m.mu.RLock()
	r, ok := m.rounds[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoundNotFound, id)
	}
	return r, nil
}

// Click resolves a click. Identical clicks in flight at the same time are
// resolved once and share the result.
func (m *Manager) Click(ctx context.Context, id string, index, value int) (round.ClickResult, error) {
	r, err := m.Get(id)
	if err != nil {
		return round.ClickResult{}, err
	}

	key := fmt.Sprintf("%s/%d/%d", id, index, value)
	ch := m.clicks.DoChan(key, func() (interface{}, error) {
		return r.Click(index, value), nil
	})
	select {
	case res := <-ch:
		return res.Val.(round.ClickResult), nil
	case <-ctx.Done():
		return round.ClickResult{}, ctx.Err()
	}
}

// Pause pauses the round with id.
func (m *Manager) Pause(id string) (round.Snapshot, error) {
	r, err := m.Get(id)
	if err != nil {
		return round.Snapshot{}, err
	}
	r.Pause()
	return r.Snapshot(), nil
}

// Resume resumes the round with id.
func (m *Manager) Resume(id string) (round.Snapshot, error) {
	r, err := m.Get(id)
	if err != nil {
		return round.Snapshot{}, err
	}
	r.Resume()
	return r.Snapshot(), nil
}

// Delete tears the round down and forgets it.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	r, ok := m.rounds[id]
	delete(m.rounds, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoundNotFound, id)
	}
	r.Close()
	return nil
}

// IDs lists live round ids in sorted order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.rounds))
	for id := range m.rounds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of live rounds.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rounds)
}

// Nonce returns the last nonce handed out.
func (m *Manager) Nonce() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nonce
}

// Close tears down every round. Create fails afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	rounds := m.rounds
	m.rounds = make(map[string]*round.Round)
	m.closed = true
	m.mu.Unlock()

	for _, r := range rounds {
		r.Close()
	}
}
