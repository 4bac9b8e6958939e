package service

import (
	"time"

	"floorwatch.app/tracker/core/config"
	"floorwatch.app/tracker/internal/queue"
	"floorwatch.app/tracker/internal/store"
)

// Services bundles the service layer for handler wiring.
type Services struct {
	issues  IssueService
	auth    AuthService
	catalog FactoryCatalog
}

type ServicesConfig struct {
	Issues         store.IssueStore
	EventProducer  queue.Producer
	Auth           config.AuthConfig
	Catalog        config.CatalogConfig
	RequestTimeout time.Duration
}

func NewServices(cfg ServicesConfig) (*Services, error) {
	catalog, err := NewFactoryCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	return &Services{
		issues:  NewIssueService(cfg.Issues, cfg.EventProducer, cfg.RequestTimeout),
		auth:    NewAuthService(cfg.Auth),
		catalog: catalog,
	}, nil
}

func (s *Services) Issues() IssueService {
	return s.issues
}

func (s *Services) Auth() AuthService {
	return s.auth
}

func (s *Services) Factories() FactoryCatalog {
	return s.catalog
}
