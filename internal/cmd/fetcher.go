package cmd

import (
	"log/slog"

	"github.com/leadops/leadctl/internal/collection"
	"github.com/leadops/leadctl/internal/config"
	"github.com/leadops/leadctl/internal/httpclient"
)

// FetcherFactory builds the collection fetcher for one screen resource.
type FetcherFactory func(cfg config.Hook, logger *slog.Logger, resource string) (collection.Fetcher, error)

type fetcherFactoryKey struct{}

// FetcherFactoryKey overrides the fetcher factory when set on the command context.
var FetcherFactoryKey = fetcherFactoryKey{}

// HTTPFetcherFactory fetches from the profile's api.base-url through the
// logging HTTP client.
func HTTPFetcherFactory(cfg config.Hook, logger *slog.Logger, resource string) (collection.Fetcher, error) {
	api, err := config.LoadAPISettings(cfg)
	if err != nil {
		return nil, &ConfigurationError{Err: err}
	}
	client := httpclient.NewLoggingHTTPClient(logger, api.Timeout)
	f, err := collection.NewHTTPFetcher(api.BaseURL, resource, client,
		collection.WithRetryPolicy(api.Retry),
		collection.WithLogger(logger),
	)
	if err != nil {
		return nil, &ConfigurationError{Err: err}
	}
	return f, nil
}
