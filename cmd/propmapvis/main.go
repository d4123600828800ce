// Command propmapvis shows the interactive property map in a window.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/unit"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/elektrokombinacija/propmap/internal/config"
	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/feed"
	"github.com/elektrokombinacija/propmap/internal/logging"
	"github.com/elektrokombinacija/propmap/internal/metrics"
	"github.com/elektrokombinacija/propmap/internal/vis"
)

func main() {
	fs := pflag.NewFlagSet("propmapvis", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, "propmapvis")

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		m = metrics.New()
		go serveMetrics(cfg.Metrics.Addr, m, logger)
	}

	go func() {
		window := new(app.Window)
		window.Option(
			app.Title(cfg.Window.Title),
			app.Size(unit.Dp(cfg.Window.Width), unit.Dp(cfg.Window.Height)),
		)

		application := vis.NewApp(window, vis.Options{
			HitRadius: cfg.Map.HitRadius,
			Index:     cfg.Map.Index,
			Currency:  cfg.Map.Currency,
			Locale:    cfg.Map.Locale,
			Log:       logger,
			Metrics:   m,
		})

		st := application.State()
		st.OnSelect = func(p *core.PropertyMarker) {
			if p == nil {
				logger.Info().Msg("selection cleared")
				return
			}
			logger.Info().Str("marker", p.ID).Int64("price", p.Price).Msg("property selected")
		}
		st.OnShowList = func() {
			logger.Info().Int("markers", len(st.Markers())).Msg("show list requested")
		}

		if cfg.Feed.File != "" {
			markers, err := feed.Load(cfg.Feed.File, logger)
			m.IncFeedUpdate("file", err)
			if err != nil {
				logger.Error().Err(err).Str("path", cfg.Feed.File).Msg("load marker feed")
			} else {
				application.Publish(markers)
			}
		}

		var sub *feed.Subscriber
		if cfg.Feed.NATSURL != "" {
			sub, err = feed.NewSubscriber(cfg.Feed.NATSURL, logger, m)
			if err != nil {
				logger.Error().Err(err).Msg("nats feed unavailable")
			} else if err := sub.Subscribe(cfg.Feed.NATSSubject, application.Publish); err != nil {
				logger.Error().Err(err).Msg("nats subscribe")
			}
		}

		err := application.Run()
		if sub != nil {
			sub.Close()
		}
		if err != nil {
			logger.Fatal().Err(err).Msg("window closed with error")
		}
		os.Exit(0)
	}()
	app.Main()
}

func serveMetrics(addr string, m *metrics.Metrics, logger zerolog.Logger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info().Str("addr", addr).Msg("metrics listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
