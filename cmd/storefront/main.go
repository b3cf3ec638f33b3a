// Command storefront runs the interactive storefront widget against a running
// API server: browse the catalog, fill a basket, and place an order.
package main

import (
	"context"
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/apiclient"
	"github.com/xenking/storefront/internal/bus"
	"github.com/xenking/storefront/internal/state"
	"github.com/xenking/storefront/internal/widget"
)

// Config holds the widget configuration, loadable from environment variables
// (STORE_ prefix), flags, or a YAML config file.
type Config struct {
	APIURL  string        `default:"http://localhost:8080" usage:"Storefront API base URL" flag:"api-url"`
	CDNURL  string        `default:"" usage:"Base URL for product images" flag:"cdn-url"`
	Retries int           `default:"3" usage:"Catalog fetch attempts"`
	Backoff time.Duration `default:"500ms" usage:"Delay between catalog fetch attempts"`
}

func loadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STORE",
		Files:     []string{"storefront.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return &cfg, nil
}

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, _ *app.Telemetry) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		events := bus.New()
		st := state.New(events, lg.Named("state"))
		client := apiclient.New(apiclient.Config{
			BaseURL: cfg.APIURL,
			CDNURL:  cfg.CDNURL,
			Retries: cfg.Retries,
			Backoff: cfg.Backoff,
		}, lg.Named("api"))

		w := widget.New(events, st, client, lg.Named("widget"), os.Stdout)
		return w.Run(ctx, os.Stdin)
	})
}
