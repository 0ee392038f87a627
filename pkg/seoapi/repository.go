package seoapi

import (
	"context"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
	"github.com/goliatone/go-seo-dashboard/components/store"
)

// Repository adapts one remote collection to store.Repository.
type Repository struct {
	client *Client
	entity string
}

var _ store.Repository = (*Repository)(nil)

// NewRepository binds client to entity.
func NewRepository(client *Client, entity string) *Repository {
	return &Repository{client: client, entity: entity}
}

func (r *Repository) Entity() string { return r.entity }

func (r *Repository) GetAll(ctx context.Context) ([]datatable.Record, error) {
	return r.client.List(ctx, r.entity)
}

func (r *Repository) GetByID(ctx context.Context, id int) (datatable.Record, error) {
	return r.client.Get(ctx, r.entity, id)
}

func (r *Repository) Create(ctx context.Context, data datatable.Record) (datatable.Record, error) {
	return r.client.Create(ctx, r.entity, data)
}

func (r *Repository) Update(ctx context.Context, id int, data datatable.Record) (datatable.Record, error) {
	return r.client.Update(ctx, r.entity, id, data)
}

func (r *Repository) Delete(ctx context.Context, id int) (bool, error) {
	return r.client.Delete(ctx, r.entity, id)
}

// NewCatalog builds a catalog with a remote repository for every entity.
func NewCatalog(client *Client, entities ...string) *store.Catalog {
	repos := make([]store.Repository, len(entities))
	for i, entity := range entities {
		repos[i] = NewRepository(client, entity)
	}
	return store.NewCatalog(repos...)
}
