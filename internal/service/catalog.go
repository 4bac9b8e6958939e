package service

import (
	"context"
	"fmt"

	"floorwatch.app/tracker/core/config"
	"floorwatch.app/tracker/internal/model"
	"floorwatch.app/tracker/internal/store"
)

// FactoryCatalog is the injectable catalog of factories a worker can file
// issues against. The list comes from configuration so a server-backed
// catalog can replace it later without touching callers.
type FactoryCatalog interface {
	List(ctx context.Context) []model.Factory
	Get(ctx context.Context, id string) (*model.Factory, error)
}

// defaultFactories mirrors the catalog the mobile client shipped with.
var defaultFactories = []model.Factory{
	{ID: "1", Name: "China Factory 1", Location: "Shanghai, China"},
	{ID: "2", Name: "China Factory 2", Location: "Shenzhen, China"},
	{ID: "3", Name: "Thailand Factory", Location: "Bangkok, Thailand"},
}

type factoryCatalog struct {
	factories []model.Factory
}

func NewFactoryCatalog(cfg config.CatalogConfig) (FactoryCatalog, error) {
	entries, err := cfg.ParseFactories()
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return &factoryCatalog{factories: defaultFactories}, nil
	}

	factories := make([]model.Factory, len(entries))
	for i, e := range entries {
		if e.ID == "" || e.Name == "" {
			return nil, fmt.Errorf("factory entry %d: id and name are required", i)
		}
		factories[i] = model.Factory{ID: e.ID, Name: e.Name, Location: e.Location}
	}

	return &factoryCatalog{factories: factories}, nil
}

func (c *factoryCatalog) List(ctx context.Context) []model.Factory {
	out := make([]model.Factory, len(c.factories))
	copy(out, c.factories)
	return out
}

func (c *factoryCatalog) Get(ctx context.Context, factoryID string) (*model.Factory, error) {
	for _, f := range c.factories {
		if f.ID == factoryID {
			factory := f
			return &factory, nil
		}
	}
	return nil, store.ErrNotFound
}
