//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/agromitra/advisory-engine/internal/bootstrap"
	"github.com/agromitra/advisory-engine/internal/infra/config"
	httpiface "github.com/agromitra/advisory-engine/internal/interface/http"
	"github.com/agromitra/advisory-engine/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideRandomSource,
		provideWeatherProvider,
		provideSoilClassifier,
		provideReasoningBackend,
		provideContextStore,
		provideImageArchive,
		provideWeatherService,
		provideAgronomyService,
		provideFollowupService,
		provideAdvisoryService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
