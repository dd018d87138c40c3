package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/engine"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixedSeed string

func (s fixedSeed) Current() (string, error) { return string(s), nil }

func newManager(t *testing.T, rec round.Recorder) (*Manager, *round.FakeClock) {
	t.Helper()
	clock := round.NewFakeClock(time.Unix(1_700_000_000, 0))
	m := NewManager(Deps{
		Seeds:      fixedSeed("server-seed"),
		ClientSeed: "client-seed",
		StartNonce: 41,
		Recorder:   rec,
		Clock:      clock,
	})
	t.Cleanup(m.Close)
	return m, clock
}

func easyConfig() round.Config {
	return round.Config{
		Mode:       difficulty.Classic,
		Difficulty: difficulty.Easy,
		Layout:     numberset.GridConfig{Min: 1, Max: 30, Cells: 9},
		TotalTime:  30,
	}
}

func smallest(snap round.Snapshot) (int, int) {
	idx, val := -1, 0
	for _, c := range snap.Cells {
		if c.Found || c.Decoy {
			continue
		}
		if idx == -1 || c.Value < val {
			idx, val = c.Index, c.Value
		}
	}
	return idx, val
}

func TestCreateAssignsNonceAndID(t *testing.T) {
	m, _ := newManager(t, nil)

	a, err := m.Create(easyConfig(), "")
	require.NoError(t, err)
	b, err := m.Create(easyConfig(), "other")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, uint64(43), m.Nonce())
	assert.Equal(t, 2, m.Len())
	assert.True(t, a.Snapshot().Started)

	got, err := m.Get(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)
}

func TestOpeningSetIsReproducible(t *testing.T) {
	m, _ := newManager(t, nil)
	r, err := m.Create(easyConfig(), "")
	require.NoError(t, err)

	// first round after StartNonce 41
	stream := engine.NewStream(engine.Seeds{Server: "server-seed", Client: "client-seed"}, 42)
	p := difficulty.For(difficulty.Easy)
	want, err := numberset.NewGenerator(stream, p.DecoyCount, p.FreeJitter).Generate(easyConfig().Layout)
	require.NoError(t, err)

	snap := r.Snapshot()
	require.Len(t, snap.Cells, len(want.Cells))
	for i, c := range snap.Cells {
		assert.Equal(t, want.Cells[i].Value, c.Value, "cell %d", i)
	}
}

func TestCreateRejectsInvalidConfig(t *testing.T) {
	m, _ := newManager(t, nil)
	cfg := easyConfig()
	cfg.Layout = numberset.GridConfig{Min: 1, Max: 5, Cells: 9}

	_, err := m.Create(cfg, "")
	assert.ErrorIs(t, err, numberset.ErrRangeTooSmall)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, uint64(41), m.Nonce(), "no nonce spent on a rejected config")
}

func TestUnknownRound(t *testing.T) {
	m, _ := newManager(t, nil)

	_, err := m.Get("nope")
	assert.ErrorIs(t, err, ErrRoundNotFound)
	_, err = m.Click(context.Background(), "nope", 0, 1)
	assert.ErrorIs(t, err, ErrRoundNotFound)
	_, err = m.Pause("nope")
	assert.ErrorIs(t, err, ErrRoundNotFound)
	assert.ErrorIs(t, m.Delete("nope"), ErrRoundNotFound)
}

func TestConcurrentDuplicateClicksCountOnce(t *testing.T) {
	m, clock := newManager(t, nil)
	r, err := m.Create(easyConfig(), "")
	require.NoError(t, err)
	clock.Advance(round.DefaultDebounce)

	idx, val := smallest(r.Snapshot())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Click(context.Background(), r.ID(), idx, val)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st := r.State()
	assert.Equal(t, 1, st.NumbersFound)
	assert.Equal(t, 1, st.Combo)
}

func TestPauseResumeDelete(t *testing.T) {
	m, clock := newManager(t, nil)
	r, err := m.Create(easyConfig(), "")
	require.NoError(t, err)

	snap, err := m.Pause(r.ID())
	require.NoError(t, err)
	assert.True(t, snap.Paused)

	clock.Advance(5 * time.Second)
	assert.Equal(t, 30, r.State().TimeLeft)

	snap, err = m.Resume(r.ID())
	require.NoError(t, err)
	assert.False(t, snap.Paused)

	require.NoError(t, m.Delete(r.ID()))
	assert.Equal(t, 0, m.Len())
	select {
	case <-r.Done():
	default:
		t.Fatal("deleted round was not closed")
	}
}

func TestRecorderGetsSeedIdentity(t *testing.T) {
	var mu sync.Mutex
	var got []round.Record
	rec := round.RecorderFunc(func(_ context.Context, r round.Record) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, r)
		return nil
	})

	m, clock := newManager(t, rec)
	r, err := m.Create(easyConfig(), "")
	require.NoError(t, err)

	clock.Advance(30 * time.Second)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, r.ID(), got[0].RoundID)
	assert.Equal(t, uint64(42), got[0].Seed.Nonce)
	assert.Equal(t, engine.HashServerSeed("server-seed"), got[0].Seed.ServerSeedHash)
	assert.Equal(t, round.StatusTimeout, got[0].Result.Outcome)
}

func TestCloseStopsEverything(t *testing.T) {
	m, clock := newManager(t, nil)
	for i := 0; i < 3; i++ {
		_, err := m.Create(easyConfig(), "")
		require.NoError(t, err)
	}
	m.Close()

	assert.Equal(t, 0, clock.Pending())
	_, err := m.Create(easyConfig(), "")
	assert.Error(t, err)
}

func TestReplayMatchesCreatedBoard(t *testing.T) {
	m, _ := newManager(t, nil)
	cfg := round.Config{
		Mode:       difficulty.Classic,
		Difficulty: difficulty.Hard,
		Layout:     numberset.FreeConfig{Min: 50, Max: 100, Count: 16},
		TotalTime:  30,
	}
	r, err := m.Create(cfg, "")
	require.NoError(t, err)

	set, err := Replay(engine.Seeds{Server: "server-seed", Client: "client-seed"}, 42, difficulty.Hard, cfg.Layout)
	require.NoError(t, err)

	snap := r.Snapshot()
	require.Len(t, snap.Cells, set.Len())
	for i, c := range set.Cells {
		assert.Equal(t, c.Value, snap.Cells[i].Value, "cell %d", i)
		assert.Equal(t, c.Decoy, snap.Cells[i].Decoy, "cell %d", i)
	}
}

func TestReplayRejectsBadInput(t *testing.T) {
	_, err := Replay(engine.Seeds{}, 1, difficulty.Easy, numberset.GridConfig{Min: 1, Max: 9, Cells: 4})
	assert.Error(t, err)

	_, err = Replay(engine.Seeds{Server: "s", Client: "c"}, 1, difficulty.Easy, numberset.GridConfig{Min: 1, Max: 3, Cells: 9})
	assert.ErrorIs(t, err, numberset.ErrRangeTooSmall)
}
