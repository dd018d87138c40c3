package main

import (
	"context"
	"fmt"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/api"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/audio"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/campaign"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/engine"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/i18n"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/seedvault"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/session"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/settings"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/store"
	"go.uber.org/zap"
)

// app holds everything a command may need. db is nil when the database is
// disabled.
type app struct {
	db       store.DB
	vault    *seedvault.Vault
	campaign *campaign.Campaign
	settings *settings.Manager
	catalog  *i18n.Catalog
	sessions *session.Manager
	sound    *audio.Sink
}

type appOptions struct {
	// withSound opens the speaker for terminal play.
	withSound bool
}

func openDB(path string) (store.DB, error) {
	if path == "" {
		return nil, nil
	}
	db, err := store.NewSQLiteDB(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

func openApp(ctx context.Context, opts appOptions) (*app, error) {
	db, err := openDB(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	camp, err := campaign.Load()
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}

	prefs := settings.Open(settings.AppName, logger)
	s := prefs.Get()
	a := &app{
		db:       db,
		vault:    seedvault.New(cfg.Seeds.Service, cfg.Seeds.FallbackPath),
		campaign: camp,
		settings: prefs,
		catalog:  i18n.New(s.Language),
	}

	deps := session.Deps{
		Seeds:      a.vault,
		ClientSeed: s.ClientSeed,
		Translator: a.catalog,
		Logger:     logger,
	}
	if db != nil {
		deps.Recorder = store.NewRecorder(db, api.EngineVersion)
		deps.StartNonce = a.lastNonce(ctx, s.ClientSeed)
	}
	if opts.withSound {
		a.sound = audio.NewSink(s.SoundEnabled, s.Volume, logger)
		if err := a.sound.Init(); err != nil {
			logger.Warn("audio unavailable, playing silently", zap.Error(err))
		}
		deps.Audio = a.sound
	}
	a.sessions = session.NewManager(deps)
	return a, nil
}

// lastNonce continues the nonce sequence of the current seed pair so
// openings are never reused.
func (a *app) lastNonce(ctx context.Context, clientSeed string) uint64 {
	seed, err := a.vault.Current()
	if err != nil {
		logger.Warn("server seed unavailable", zap.Error(err))
		return 0
	}
	nonce, err := a.db.MaxNonce(ctx, engine.HashServerSeed(seed), clientSeed)
	if err != nil {
		logger.Warn("failed to read last nonce", zap.Error(err))
		return 0
	}
	return nonce
}

func (a *app) progress(ctx context.Context) ([]store.Progress, error) {
	if a.db == nil {
		return nil, nil
	}
	return a.db.ListProgress(ctx)
}

// roundConfig resolves a campaign level or free-play options.
func (a *app) roundConfig(ctx context.Context, level int, opts round.Options) (round.Config, error) {
	if level <= 0 {
		return opts.Config()
	}
	progress, err := a.progress(ctx)
	if err != nil {
		return round.Config{}, err
	}
	return a.campaign.Start(level, progress)
}

func (a *app) Close() {
	if a.sessions != nil {
		a.sessions.Close()
	}
	if a.sound != nil {
		a.sound.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}
}
