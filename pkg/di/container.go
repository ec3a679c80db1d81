package di

import (
	"errors"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"

	"github.com/abyx/RailsLookup/lookup"
)

// Container provides dependency injection for lookup components. It owns a
// single fetch service shared by every cache and a registry holding one
// lookup.Cache per table, giving the caches an explicit lifetime: created
// here at startup, handed out by reference, gone when the container goes.
type Container struct {
	fetch  lookup.FetchService
	config lookup.Config
	log    *zap.Logger
	id     string

	caches *xsync.MapOf[string, *lookup.Cache]
}

// Option configures optional Container collaborators.
type Option func(*Container)

// WithLogger attaches a structured logger used by the container and every
// cache it creates. The default is a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Container) {
		if log != nil {
			c.log = log
		}
	}
}

// NewContainer creates a new DI container with the provided fetch-service
// configuration. It initializes the shared sturdyc-backed fetch service and
// an empty cache registry.
func NewContainer(config lookup.Config, opts ...Option) (*Container, error) {
	fetch, err := lookup.NewFetchService(config)
	if err != nil {
		return nil, err
	}

	c := &Container{
		fetch:  fetch,
		config: config,
		log:    zap.NewNop(),
		id:     uuid.NewString(),
		caches: xsync.NewMapOf[string, *lookup.Cache](),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.log = c.log.With(zap.String("lookup_container", c.id))
	return c, nil
}

// NewContainerWithDefaults creates a new DI container using default
// configuration. This is a convenience constructor for typical use cases
// where custom configuration is not required.
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(lookup.DefaultConfig(), opts...)
}

// FetchService returns the shared fetch service instance. This allows access
// to the miss-coalescing layer for advanced use cases.
func (c *Container) FetchService() lookup.FetchService {
	return c.fetch
}

// Config returns a copy of the fetch-service configuration used by this
// container.
func (c *Container) Config() lookup.Config {
	return c.config
}

// ID returns the container's instance id, useful for correlating log lines
// when several containers run in one process.
func (c *Container) ID() string {
	return c.id
}

// CacheFor returns the cache for table, creating it on first use. Repeated
// calls with the same table name return the same instance, so every part of
// the process shares one set of interned pairs per table.
func (c *Container) CacheFor(table lookup.Table, store lookup.Store) (*lookup.Cache, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("di: store is required")
	}

	var buildErr error
	cache, _ := c.caches.LoadOrCompute(table.Name, func() *lookup.Cache {
		built, err := lookup.New(table, store, c.fetch, lookup.WithLogger(c.log))
		if err != nil {
			buildErr = err
			return nil
		}
		return built
	})
	if buildErr != nil {
		c.caches.Delete(table.Name)
		return nil, buildErr
	}
	if cache == nil {
		// A concurrent CacheFor stored nil while failing construction.
		c.caches.Delete(table.Name)
		return nil, errors.New("di: cache construction raced a failed build, retry")
	}

	return cache, nil
}
