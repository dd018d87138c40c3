package round

import (
	"context"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
)

// Sound names an audio cue.
type Sound string

const (
	SoundCorrect    Sound = "correct"
	SoundWrong      Sound = "wrong"
	SoundDecoy      Sound = "decoy"
	SoundReshuffle  Sound = "reshuffle"
	SoundRegenerate Sound = "regenerate"
	SoundWarning    Sound = "warning"
	SoundComplete   Sound = "complete"
	SoundTimeout    Sound = "timeout"
	SoundLifeOut    Sound = "lifeout"
)

// AudioSink plays cues. Implementations must not block.
type AudioSink interface {
	Play(sound Sound)
}

// Translator resolves message keys to display strings.
type Translator interface {
	Get(key string) string
}

// Record is what a finished round hands to persistence.
type Record struct {
	RoundID    string
	Mode       difficulty.Mode
	Difficulty difficulty.Level
	Level      int
	Seed       SeedRef
	Result     Result
}

// SeedRef identifies the random stream that produced the opening set. The
// server seed itself is never part of a record.
type SeedRef struct {
	ServerSeedHash string `json:"server_seed_hash"`
	ClientSeed     string `json:"client_seed"`
	Nonce          uint64 `json:"nonce"`
}

// Recorder persists finished rounds. It is called at most once per round.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, rec Record) error

func (f RecorderFunc) Record(ctx context.Context, rec Record) error { return f(ctx, rec) }

// Listener receives a snapshot after every visible change. It may be called
// from timer goroutines and must be safe for concurrent use.
type Listener func(Snapshot)

type nopAudio struct{}

func (nopAudio) Play(Sound) {}

type keyTranslator struct{}

func (keyTranslator) Get(key string) string { return key }

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, Record) error { return nil }
