package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/podscript/internal/audio"
	"github.com/phrazzld/podscript/internal/config"
	"github.com/phrazzld/podscript/internal/platform/gemini"
	"github.com/phrazzld/podscript/internal/podcast"
)

// application bundles the services shared by the generate and serve commands.
type application struct {
	config *config.Config
	logger *slog.Logger

	client  *gemini.Client
	scripts *podcast.Service
}

func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...gemini.ClientOption) (*application, error) {
	client, err := gemini.NewClient(ctx, logger.With("component", "llm_generator"), cfg.LLM, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	scripts, err := podcast.NewService(client, nil, logger.With("component", "podcast_service"))
	if err != nil {
		return nil, fmt.Errorf("failed to create podcast service: %w", err)
	}

	logger.Debug("application initialized",
		"model", cfg.LLM.ModelName,
		"speech_model", cfg.Speech.ModelName,
		"max_retries", cfg.LLM.MaxRetries)

	return &application{
		config:  cfg,
		logger:  logger,
		client:  client,
		scripts: scripts,
	}, nil
}

// renderer returns an audio renderer for speechModel, or for the configured
// speech model when speechModel is empty.
func (a *application) renderer(speechModel string) *audio.Renderer {
	if speechModel == "" {
		speechModel = a.config.Speech.ModelName
	}
	return audio.NewRenderer(
		a.client.Speaker(speechModel),
		a.config.Speech.SampleRate,
		a.logger.With("component", "audio_renderer", "speech_model", speechModel),
	)
}
