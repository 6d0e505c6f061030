package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iliyamo/cinema-booking-web/internal/cache"
)

// CRUD holds the five standard endpoints of a resource group.
type CRUD struct {
	List, Get, Create, Update, Delete Endpoint
}

// CRUDEndpoints declares the standard endpoints for resource rooted at path.
// Reads provide {resource, LIST} or {resource, id}; writes invalidate them.
// Catalog resources are shared across callers.
func CRUDEndpoints(resource, path string, shared bool) CRUD {
	return CRUD{
		List: Endpoint{
			Name: resource + ".list", Method: http.MethodGet, Path: path,
			Provides: listOf(resource), Shared: shared,
		},
		Get: Endpoint{
			Name: resource + ".get", Method: http.MethodGet, Path: path + "/{id}",
			Provides: itemOf(resource), Shared: shared,
		},
		Create: Endpoint{
			Name: resource + ".create", Method: http.MethodPost, Path: path,
			Invalidates: listOf(resource),
		},
		Update: Endpoint{
			Name: resource + ".update", Method: http.MethodPut, Path: path + "/{id}",
			Invalidates: mutationOf(resource),
		},
		Delete: Endpoint{
			Name: resource + ".delete", Method: http.MethodDelete, Path: path + "/{id}",
			Invalidates: mutationOf(resource),
		},
	}
}

// Resource is a typed CRUD group.
type Resource[T any] struct {
	Name string
	c    *Client
	ep   CRUD
}

// NewResource binds a CRUD group to c.
func NewResource[T any](c *Client, resource, path string, shared bool) Resource[T] {
	return Resource[T]{Name: resource, c: c, ep: CRUDEndpoints(resource, path, shared)}
}

// Endpoints exposes the declared endpoints.
func (r Resource[T]) Endpoints() CRUD { return r.ep }

func (r Resource[T]) List(ctx context.Context, q url.Values) ([]T, error) {
	var out []T
	err := r.c.Do(ctx, r.ep.List, Call{Query: q, Out: &out})
	return out, err
}

func (r Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := r.c.Do(ctx, r.ep.Get, Call{Params: Params{"id": id}, Out: &out})
	return out, err
}

func (r Resource[T]) Create(ctx context.Context, v T) (T, error) {
	var out T
	err := r.c.Do(ctx, r.ep.Create, Call{Body: v, Out: &out})
	return out, err
}

func (r Resource[T]) Update(ctx context.Context, id string, v T) (T, error) {
	var out T
	err := r.c.Do(ctx, r.ep.Update, Call{Params: Params{"id": id}, Body: v, Out: &out})
	return out, err
}

func (r Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.Do(ctx, r.ep.Delete, Call{Params: Params{"id": id}})
}

// Invalidate exposes manual invalidation for callers that learn of a change
// out of band (e.g. a confirmed payment).
func (c *Client) Invalidate(ctx context.Context, tags ...cache.Tag) {
	if c.cache != nil {
		c.cache.Invalidate(ctx, tags...)
	}
}
