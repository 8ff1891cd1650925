package client

import (
	"context"
	"fmt"

	"mico/internal/api"
	"mico/internal/transport"
	"mico/pkg/logging"
)

// PostApplication creates an application version and pushes the created
// resource into its stream.
func (c *Client) PostApplication(ctx context.Context, app *api.Application) (*Watch[api.Application], error) {
	if app == nil {
		return nil, ErrNoData
	}
	var created api.Application
	res, err := c.transport.Post(ctx, api.Path(applicationsPath), app, &created)
	if err != nil {
		return nil, fmt.Errorf("create application %s: %w", app, err)
	}
	if res == transport.NoContent {
		return nil, fmt.Errorf("create application %s: %w", app, ErrNoData)
	}
	logging.Info("Client", "Created application %s", created)

	w := publish(c, created, created.Links, applicationPath(created.ShortName, created.Version))
	c.refreshApplicationLists(ctx, created.ShortName)
	return w, nil
}

// PutApplication updates an application version.
func (c *Client) PutApplication(ctx context.Context, short, version string, app *api.Application) (*Watch[api.Application], error) {
	if app == nil {
		return nil, ErrNoData
	}
	var updated api.Application
	if err := c.transport.Put(ctx, api.Path(applicationPath(short, version)), app, &updated); err != nil {
		return nil, fmt.Errorf("update application %s@%s: %w", short, version, err)
	}
	logging.Info("Client", "Updated application %s", updated)

	w := publish(c, updated, updated.Links, applicationPath(short, version))
	c.refreshApplicationLists(ctx, short)
	return w, nil
}

// DeleteApplication deletes an application version and drops its cached
// snapshot.
func (c *Client) DeleteApplication(ctx context.Context, short, version string) (transport.Result, error) {
	path := applicationPath(short, version)
	res, err := c.transport.Delete(ctx, api.Path(path), nil)
	if err != nil {
		return res, fmt.Errorf("delete application %s@%s: %w", short, version, err)
	}
	logging.Info("Client", "Deleted application %s@%s", short, version)

	c.registry.Invalidate(path)
	c.refreshApplicationLists(ctx, short)
	return res, nil
}

// PromoteApplication copies an application version to newVersion.
func (c *Client) PromoteApplication(ctx context.Context, short, version, newVersion string) (*Watch[api.Application], error) {
	if newVersion == "" {
		return nil, ErrNoData
	}
	var promoted api.Application
	res, err := c.transport.Post(ctx, api.Path(applicationPath(short, version)+"/promote"), api.VersionRequest{Version: newVersion}, &promoted)
	if err != nil {
		return nil, fmt.Errorf("promote application %s@%s to %s: %w", short, version, newVersion, err)
	}
	if res == transport.NoContent {
		return nil, fmt.Errorf("promote application %s@%s: %w", short, version, ErrNoData)
	}
	logging.Info("Client", "Promoted application %s@%s to %s", short, version, promoted.Version)

	w := publish(c, promoted, promoted.Links, applicationPath(short, newVersion))
	c.refreshApplicationLists(ctx, short)
	return w, nil
}

// PostService creates a service version.
func (c *Client) PostService(ctx context.Context, svc *api.Service) (*Watch[api.Service], error) {
	if svc == nil {
		return nil, ErrNoData
	}
	var created api.Service
	res, err := c.transport.Post(ctx, api.Path(servicesPath), svc, &created)
	if err != nil {
		return nil, fmt.Errorf("create service %s: %w", svc, err)
	}
	if res == transport.NoContent {
		return nil, fmt.Errorf("create service %s: %w", svc, ErrNoData)
	}
	logging.Info("Client", "Created service %s", created)

	w := publish(c, created, created.Links, servicePath(created.ShortName, created.Version))
	c.refreshServiceLists(ctx, created.ShortName)
	return w, nil
}

// PutService updates a service version.
func (c *Client) PutService(ctx context.Context, short, version string, svc *api.Service) (*Watch[api.Service], error) {
	if svc == nil {
		return nil, ErrNoData
	}
	var updated api.Service
	if err := c.transport.Put(ctx, api.Path(servicePath(short, version)), svc, &updated); err != nil {
		return nil, fmt.Errorf("update service %s@%s: %w", short, version, err)
	}
	logging.Info("Client", "Updated service %s", updated)

	w := publish(c, updated, updated.Links, servicePath(short, version))
	c.refreshServiceLists(ctx, short)
	return w, nil
}

// DeleteService deletes a service version and drops its cached snapshot.
func (c *Client) DeleteService(ctx context.Context, short, version string) (transport.Result, error) {
	path := servicePath(short, version)
	res, err := c.transport.Delete(ctx, api.Path(path), nil)
	if err != nil {
		return res, fmt.Errorf("delete service %s@%s: %w", short, version, err)
	}
	logging.Info("Client", "Deleted service %s@%s", short, version)

	c.registry.Invalidate(path)
	c.refreshServiceLists(ctx, short)
	return res, nil
}

// AddApplicationService includes serviceShort@serviceVersion in an
// application version.
func (c *Client) AddApplicationService(ctx context.Context, short, version, serviceShort, serviceVersion string) error {
	path := applicationServicePath(short, version, serviceShort) + "/" + serviceVersion
	if _, err := c.transport.Post(ctx, api.Path(path), nil, nil); err != nil {
		return fmt.Errorf("add service %s@%s to %s@%s: %w", serviceShort, serviceVersion, short, version, err)
	}
	logging.Info("Client", "Added service %s@%s to application %s@%s", serviceShort, serviceVersion, short, version)

	c.refreshApplication(ctx, short, version)
	return nil
}

// RemoveApplicationService removes every version of serviceShort from an
// application version.
func (c *Client) RemoveApplicationService(ctx context.Context, short, version, serviceShort string) error {
	if _, err := c.transport.Delete(ctx, api.Path(applicationServicePath(short, version, serviceShort)), nil); err != nil {
		return fmt.Errorf("remove service %s from %s@%s: %w", serviceShort, short, version, err)
	}
	logging.Info("Client", "Removed service %s from application %s@%s", serviceShort, short, version)

	c.refreshApplication(ctx, short, version)
	return nil
}

// ChangeServiceVersion swaps the version of a service included in an
// application by removing the old one and adding the new one. The two writes
// are independent: when the add fails the removal stays applied and a
// *PartialWriteError is returned.
func (c *Client) ChangeServiceVersion(ctx context.Context, short, version string, from, to api.Service) error {
	if from.ShortName == "" || to.ShortName == "" || to.Version == "" {
		return ErrNoData
	}
	if from.ShortName != to.ShortName {
		return fmt.Errorf("change version of %s: replacement is %s", from.ShortName, to.ShortName)
	}

	if err := c.RemoveApplicationService(ctx, short, version, from.ShortName); err != nil {
		return err
	}
	if err := c.AddApplicationService(ctx, short, version, to.ShortName, to.Version); err != nil {
		logging.Error("Client", err, "Application %s@%s lost service %s: removed %s but could not add %s",
			short, version, from.ShortName, from.Version, to.Version)
		return &PartialWriteError{Step: "add", Completed: []string{"remove"}, Err: err}
	}
	return nil
}

func (c *Client) refreshApplicationLists(ctx context.Context, short string) {
	c.refresh(ctx, applicationsPath, c.fetchApplications(applicationsPath))
	path := applicationVersionsPath(short)
	c.refresh(ctx, path, c.fetchApplications(path))
}

func (c *Client) refreshApplication(ctx context.Context, short, version string) {
	path := applicationPath(short, version)
	c.refresh(ctx, path, fetchObject[api.Application](c, path))
}

func (c *Client) refreshServiceLists(ctx context.Context, short string) {
	c.refresh(ctx, servicesPath, c.fetchServices(servicesPath))
	path := serviceVersionsPath(short)
	c.refresh(ctx, path, c.fetchServiceVersions(path))
}
