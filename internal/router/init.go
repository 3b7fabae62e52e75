package router

import (
	"github.com/oksasatya/brew-catalog-api/internal/application"
	"github.com/oksasatya/brew-catalog-api/internal/container"
	repo "github.com/oksasatya/brew-catalog-api/internal/domain/repository"
	gcsinfra "github.com/oksasatya/brew-catalog-api/internal/infrastructure/gcs"
	pginfra "github.com/oksasatya/brew-catalog-api/internal/infrastructure/postgres"
	"github.com/oksasatya/brew-catalog-api/internal/infrastructure/redisstore"
	"github.com/oksasatya/brew-catalog-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/brew-catalog-api/internal/interface/http"
	"github.com/oksasatya/brew-catalog-api/internal/interface/middleware"
	"github.com/oksasatya/brew-catalog-api/internal/router/modules"
	"github.com/oksasatya/brew-catalog-api/pkg/helpers"
)

type AuthModuleDeps struct {
	Sessions repo.SessionStore
	Cookies  *helpers.SessionCookies
	Service  *application.AuthService
	Handler  *handlers.AuthHandler
}

type BeerModuleDeps struct {
	Repo    repo.BeerRepository
	Service *application.BeerService
	Handler *handlers.BeerHandler
}

func buildAuthDeps() AuthModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	sessions := redisstore.NewSessionStore(container.GetRedis(), cfg.SessionKeyPrefix, cfg.SessionTTL)
	cookies := helpers.NewSessionCookies(cfg.SessionCookieName, cfg.CookieDomain, cfg.CookieSecure, cfg.SameSite())
	dir := application.NewDirectory(
		pginfra.NewUserRepository(container.GetPGPool()),
		helpers.NewPasswordVerifier(cfg.BcryptCost),
	)
	service := application.NewAuthService(dir, sessions, logger)

	return AuthModuleDeps{
		Sessions: sessions,
		Cookies:  cookies,
		Service:  service,
		Handler:  handlers.NewAuthHandler(service, cookies, logger),
	}
}

// BuildBeerService wires the beer catalog from whatever the container holds;
// the index worker shares it with the HTTP module.
func BuildBeerService() *application.BeerService {
	cfg := container.GetConfig()

	var images repo.ImageStore
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		images = gcsinfra.NewImageStore(gcs, cfg.GCSBucket)
	}
	var index repo.BeerIndex
	if es := container.GetES(); es != nil {
		index = search.NewBeerIndex(es, cfg.ESBeersIndex)
	}
	var jobs repo.JobPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		jobs = pub
	}

	return application.NewBeerService(
		pginfra.NewBeerRepository(container.GetPGPool()),
		images,
		cfg.GCSImageFolder,
		index,
		jobs,
		container.GetLogger(),
	)
}

func buildBeerDeps() BeerModuleDeps {
	service := BuildBeerService()
	return BeerModuleDeps{
		Repo:    service.Repo,
		Service: service,
		Handler: handlers.NewBeerHandler(service, container.GetConfig().MaxImageBytes, container.GetLogger()),
	}
}

// InitModules initializes all application modules and registers them with the router registry.
// Every module sees the request's session, so it is attached registry-wide.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	auth := buildAuthDeps()

	r.Use(middleware.Session(auth.Sessions, auth.Cookies, container.GetLogger()))
	r.Add(modules.NewAuthModule(auth.Handler))
	r.Add(modules.NewBeerModule(buildBeerDeps().Handler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
