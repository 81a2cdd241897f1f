package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/agromitra/advisory-engine/internal/domain/advisory"
	"github.com/agromitra/advisory-engine/internal/domain/agronomy"
	"github.com/agromitra/advisory-engine/internal/domain/followup"
	"github.com/agromitra/advisory-engine/internal/domain/weather"
	"github.com/agromitra/advisory-engine/internal/infra/advisorystore"
	"github.com/agromitra/advisory-engine/internal/infra/config"
	"github.com/agromitra/advisory-engine/internal/infra/imagestore"
	"github.com/agromitra/advisory-engine/internal/infra/reasoning"
	"github.com/agromitra/advisory-engine/internal/infra/soilclassifier"
	"github.com/agromitra/advisory-engine/internal/infra/weather/openweather"
	"github.com/agromitra/advisory-engine/pkg/randx"
)

func provideRandomSource(cfg *config.Config) randx.Source {
	seed := cfg.Weather.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return randx.New(seed)
}

func provideWeatherProvider(cfg *config.Config, logger *slog.Logger) weather.Provider {
	if cfg.Weather.APIKey == "" {
		logger.Info("weather api key not set, running on synthesized weather")
		return nil
	}
	return openweather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.Timeout)
}

func provideSoilClassifier(cfg *config.Config, logger *slog.Logger) agronomy.Classifier {
	if !cfg.SoilClassifier.Enabled {
		logger.Info("soil classifier disabled, soil profiles are synthesized")
		return nil
	}
	return soilclassifier.NewClient(cfg.SoilClassifier.BaseURL, cfg.SoilClassifier.Timeout)
}

func provideReasoningBackend(cfg *config.Config, logger *slog.Logger) followup.Backend {
	if !cfg.Reasoning.Enabled {
		logger.Info("reasoning backend disabled, follow-up answers use the rule table")
		return nil
	}
	return reasoning.NewClient(cfg.Reasoning.BaseURL, cfg.Reasoning.Timeout)
}

func provideContextStore(cfg *config.Config, logger *slog.Logger) advisory.ContextStore {
	if cfg.Advisory.Valkey.Enabled {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{cfg.Advisory.Valkey.Addr},
		})
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return advisorystore.NewMemoryStore(cfg.Advisory.ContextTTL, cfg.Advisory.MaxEntries)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("advisory valkey store enabled", "addr", cfg.Advisory.Valkey.Addr)
			return advisorystore.NewValkeyStore(client, cfg.Advisory.Valkey.Prefix, cfg.Advisory.ContextTTL)
		}
	}
	return advisorystore.NewMemoryStore(cfg.Advisory.ContextTTL, cfg.Advisory.MaxEntries)
}

func provideImageArchive(cfg *config.Config, logger *slog.Logger) advisory.ImageArchive {
	if !cfg.ImageArchive.Enabled {
		return nil
	}
	store, err := imagestore.NewObjectStore(
		cfg.ImageArchive.Endpoint,
		cfg.ImageArchive.AccessKey,
		cfg.ImageArchive.SecretKey,
		cfg.ImageArchive.Bucket,
		cfg.ImageArchive.Region,
		logger,
	)
	if err != nil {
		logger.Error("image archive init failed, soil photos will not be kept", "error", err)
		return nil
	}
	return store
}

func provideWeatherService(provider weather.Provider, rng randx.Source, logger *slog.Logger) *weather.Service {
	return weather.NewService(provider, rng, logger)
}

func provideAgronomyService(classifier agronomy.Classifier, rng randx.Source, logger *slog.Logger) *agronomy.Service {
	return agronomy.NewService(classifier, rng, logger)
}

func provideFollowupService(backend followup.Backend, logger *slog.Logger) *followup.Service {
	return followup.NewService(backend, logger)
}

func provideAdvisoryService(
	cfg *config.Config,
	weatherSvc *weather.Service,
	agronomySvc *agronomy.Service,
	followupSvc *followup.Service,
	store advisory.ContextStore,
	archive advisory.ImageArchive,
	rng randx.Source,
	logger *slog.Logger,
) *advisory.Service {
	advisoryCfg := advisory.Config{MaxRecommendations: cfg.Advisory.MaxRecommendations}
	return advisory.NewService(advisoryCfg, weatherSvc, agronomySvc, followupSvc, store, archive, rng, logger)
}
