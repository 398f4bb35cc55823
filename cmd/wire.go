// ABOUTME: Builds the service graph shared by the CLI commands and the TUI
// ABOUTME: Gateway, session, query cache, mutation coordinator and employee directory

package cmd

import (
	"context"
	"time"

	"github.com/markalston/employee-console/internal/client"
	"github.com/markalston/employee-console/internal/clock"
	"github.com/markalston/employee-console/internal/config"
	"github.com/markalston/employee-console/internal/employees"
	"github.com/markalston/employee-console/internal/federated"
	"github.com/markalston/employee-console/internal/localstore"
	"github.com/markalston/employee-console/internal/mutation"
	"github.com/markalston/employee-console/internal/nav"
	"github.com/markalston/employee-console/internal/notify"
	"github.com/markalston/employee-console/internal/query"
	"github.com/markalston/employee-console/internal/session"
)

const janitorInterval = time.Minute

type services struct {
	cfg       *config.Config
	client    *client.Client
	session   *session.Store
	cache     *query.Cache
	mutations *mutation.Coordinator
	directory *employees.Directory
	relay     *notify.Relay
}

// wire connects every service to cfg. The persisted session is restored
// before it returns.
func wire(ctx context.Context, cfg *config.Config, navigator nav.Navigator, sinks ...notify.Sink) *services {
	clk := clock.Real()
	c := client.New(cfg.APIURL, client.WithTimeout(cfg.RequestTimeout))
	relay := notify.NewRelay(sinks...)

	store := session.New(c, localstore.NewFileStore(cfg.ConfigDir), relay, navigator)
	store.Attach(c)
	store.Restore()

	cache := query.New(ctx, clk)
	cache.StartJanitor(ctx, janitorInterval)
	coord := mutation.New(cache, relay, navigator, clk)

	return &services{
		cfg:       cfg,
		client:    c,
		session:   store,
		cache:     cache,
		mutations: coord,
		directory: employees.NewDirectory(c, cache, coord, employees.WithListOptions(query.Options{
			StaleTime: cfg.ListStaleTime,
			CacheTime: cfg.ListCacheTime,
		})),
		relay: relay,
	}
}

// googleIDToken runs the browser sign-in and returns the ID token for the backend
func googleIDToken(ctx context.Context, cfg *config.Config, opts ...federated.Option) (string, error) {
	flow, err := federated.New(ctx, federated.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
	}, opts...)
	if err != nil {
		return "", err
	}
	id, err := flow.Login(ctx)
	if err != nil {
		return "", err
	}
	return id.IDToken, nil
}
