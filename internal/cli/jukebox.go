package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tessro/jukebox/internal/jukebox/client"
	"github.com/tessro/jukebox/internal/jukebox/events"
)

// newClient builds an API client from the loaded configuration.
func newClient() (*client.Client, error) {
	return client.New(cfg.API.BaseURL,
		client.WithTimeout(cfg.API.RequestTimeout()),
		client.WithRetries(cfg.API.Retries),
		client.WithLogger(log.Logger),
	)
}

// newSubscriber builds an event stream subscriber for c's server.
func newSubscriber(c *client.Client) *events.Subscriber {
	return events.NewSubscriber(c.EventsURL(cfg.Events.Path),
		events.WithReconnectDelay(cfg.Events.Delay()),
		events.WithLogger(log.Logger),
	)
}

// commandContext returns a context cancelled on Ctrl+C.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}
