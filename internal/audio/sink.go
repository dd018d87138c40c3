// Package audio plays the round cues through the system speaker.
package audio

import (
	"sync"
	"time"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

// Sink is a round.AudioSink that synthesizes cues. It stays silent until
// Init succeeds.
type Sink struct {
	mu          sync.Mutex
	volume      float64
	enabled     bool
	initialized bool
	logger      *zap.Logger
}

// NewSink returns a sink at volume (0.0 ~ 1.0).
func NewSink(enabled bool, volume float64, logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{enabled: enabled, volume: volume, logger: logger}
}

// Init opens the speaker. Without an audio device the sink stays silent and
// the error is returned for logging.
func (s *Sink) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized || !s.enabled {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

// SetVolume changes the volume of later cues.
func (s *Sink) SetVolume(volume float64) {
	s.mu.Lock()
	s.volume = volume
	s.mu.Unlock()
}

// Play queues the cue and returns immediately.
func (s *Sink) Play(sound round.Sound) {
	s.mu.Lock()
	ready := s.initialized && s.enabled
	vol := s.volume
	s.mu.Unlock()
	if !ready {
		return
	}

	cue := Cue(sound, vol, SampleRate)
	if cue == nil {
		s.logger.Debug("no cue for sound", zap.String("sound", string(sound)))
		return
	}
	speaker.Play(cue)
}

// Close stops everything that is playing.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		speaker.Clear()
	}
}

// Nop discards every cue.
type Nop struct{}

func (Nop) Play(round.Sound) {}
