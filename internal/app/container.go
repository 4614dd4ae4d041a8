package app

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/ankigen/internal/adapter/ankiconnect"
	"github.com/eslsoft/ankigen/internal/adapter/openrouter"
	adapterrepo "github.com/eslsoft/ankigen/internal/adapter/repository"
	"github.com/eslsoft/ankigen/internal/infrastructure/config"
	"github.com/eslsoft/ankigen/internal/repository"
	"github.com/eslsoft/ankigen/internal/usecase"
)

// Container aggregates the application dependencies.
type Container struct {
	Config    *config.Config
	Logger    *logrus.Logger
	Bridge    *ankiconnect.Client
	Runs      repository.RunRepository
	Publisher *usecase.Publisher
}

// NewLogger builds a configured logrus logger from application config.
func NewLogger(cfg *config.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

// Initialize loads configuration and wires the pipeline. The returned cleanup
// closes the history store.
func Initialize(opts ...usecase.Option) (*Container, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	runs, cleanup, err := adapterrepo.NewRunRepository(cfg.HistoryDB)
	if err != nil {
		return nil, nil, err
	}

	generator := openrouter.NewClient(cfg, logger)
	bridge := ankiconnect.NewClient(cfg, logger)
	artifacts := adapterrepo.NewArtifactStore(cfg.OutputDir)

	baseOpts := []usecase.Option{
		usecase.WithDeck(cfg.Anki.Deck),
		usecase.WithNoteModel(cfg.Anki.NoteModel),
		usecase.WithHistory(runs),
	}
	if cfg.Anki.Sync {
		baseOpts = append(baseOpts, usecase.WithSyncAfter())
	}
	publisher := usecase.NewPublisher(generator, generator, bridge, artifacts, logger, append(baseOpts, opts...)...)

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Bridge:    bridge,
		Runs:      runs,
		Publisher: publisher,
	}, cleanup, nil
}
