package client

import (
	"context"
	"encoding/json"

	"mico/internal/api"
)

// Applications watches the list of all application versions.
func (c *Client) Applications(ctx context.Context) *Watch[[]api.Application] {
	return watch[[]api.Application](ctx, c, applicationsPath, c.fetchApplications(applicationsPath))
}

// ApplicationVersions watches every version of the application short.
func (c *Client) ApplicationVersions(ctx context.Context, short string) *Watch[[]api.Application] {
	path := applicationVersionsPath(short)
	return watch[[]api.Application](ctx, c, path, c.fetchApplications(path))
}

// Application watches one application version including its services.
func (c *Client) Application(ctx context.Context, short, version string) *Watch[api.Application] {
	path := applicationPath(short, version)
	return watch[api.Application](ctx, c, path, fetchObject[api.Application](c, path))
}

// ApplicationStatus watches the runtime status of a deployed application.
func (c *Client) ApplicationStatus(ctx context.Context, short, version string) *Watch[api.ApplicationStatus] {
	path := applicationPath(short, version) + "/status"
	return watch[api.ApplicationStatus](ctx, c, path, fetchObject[api.ApplicationStatus](c, path))
}

// Services watches the list of all service versions.
func (c *Client) Services(ctx context.Context) *Watch[[]api.Service] {
	return watch[[]api.Service](ctx, c, servicesPath, c.fetchServices(servicesPath))
}

// ServiceVersions watches every version of the service short.
func (c *Client) ServiceVersions(ctx context.Context, short string) *Watch[[]api.Service] {
	path := serviceVersionsPath(short)
	return watch[[]api.Service](ctx, c, path, c.fetchServiceVersions(path))
}

// Service watches one service version.
func (c *Client) Service(ctx context.Context, short, version string) *Watch[api.Service] {
	path := servicePath(short, version)
	return watch[api.Service](ctx, c, path, fetchObject[api.Service](c, path))
}

// ServiceDependees watches the services that short@version depends on.
func (c *Client) ServiceDependees(ctx context.Context, short, version string) *Watch[[]api.Service] {
	path := servicePath(short, version) + "/dependees"
	return watch[[]api.Service](ctx, c, path, c.fetchServices(path))
}

// ServiceDependers watches the services that depend on short@version.
func (c *Client) ServiceDependers(ctx context.Context, short, version string) *Watch[[]api.Service] {
	path := servicePath(short, version) + "/dependers"
	return watch[[]api.Service](ctx, c, path, c.fetchServices(path))
}

// ServiceInterfaces watches the interfaces short@version exposes.
func (c *Client) ServiceInterfaces(ctx context.Context, short, version string) *Watch[[]api.ServiceInterface] {
	path := servicePath(short, version) + "/interfaces"
	return watch[[]api.ServiceInterface](ctx, c, path, fetchList[api.ServiceInterface](c, path, api.InterfaceListKey, api.InterfaceListFallbackKey))
}

// ModelDefinitions watches the model definitions of the backend's OpenAPI
// document, keyed by model name.
func (c *Client) ModelDefinitions(ctx context.Context) *Watch[map[string]json.RawMessage] {
	return watch[map[string]json.RawMessage](ctx, c, modelsKey, func(ctx context.Context) (any, error) {
		var docs struct {
			Definitions map[string]json.RawMessage `json:"definitions"`
		}
		if err := c.transport.Get(ctx, api.Path(apiDocsPath), &docs); err != nil {
			return nil, err
		}
		if docs.Definitions == nil {
			docs.Definitions = map[string]json.RawMessage{}
		}
		return docs.Definitions, nil
	})
}

func (c *Client) fetchApplications(path string) fetchFunc {
	return fetchList[api.Application](c, path, api.ApplicationListKey, api.ApplicationListFallbackKey)
}

func (c *Client) fetchServices(path string) fetchFunc {
	return fetchList[api.Service](c, path, api.ServiceListKey, api.ServiceListFallbackKey)
}

// fetchServiceVersions reads a version list that some backend builds return
// under the application list key.
func (c *Client) fetchServiceVersions(path string) fetchFunc {
	return fetchList[api.Service](c, path, api.ServiceListKey, api.ServiceListFallbackKey, api.ApplicationListKey)
}

func fetchList[T any](c *Client, path string, keys ...string) fetchFunc {
	return func(ctx context.Context) (any, error) {
		var envelope api.Envelope
		if err := c.transport.Get(ctx, api.Path(path), &envelope); err != nil {
			return nil, err
		}
		items := []T{}
		if _, err := envelope.DecodeList(&items, keys...); err != nil {
			return nil, err
		}
		return items, nil
	}
}

func fetchObject[T any](c *Client, path string) fetchFunc {
	return func(ctx context.Context) (any, error) {
		var v T
		if err := c.transport.Get(ctx, api.Path(path), &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}
