// Command propmap renders property maps without a window.
//
// Usage:
//
//	propmap render [flags] -o map.png
//	propmap serve [flags]
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/elektrokombinacija/propmap/internal/config"
	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/feed"
	"github.com/elektrokombinacija/propmap/internal/httpapi"
	"github.com/elektrokombinacija/propmap/internal/logging"
	"github.com/elektrokombinacija/propmap/internal/metrics"
	"github.com/elektrokombinacija/propmap/internal/vis/draw"
	"github.com/elektrokombinacija/propmap/internal/vis/viewport"
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "render":
		err = runRender(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "-h", "--help", "help":
		usage(os.Stdout)
		return
	default:
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "propmap:", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: propmap render [flags] | propmap serve [flags]")
}

func runRender(args []string) error {
	fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	out := fs.StringP("output", "o", "map.png", "output PNG path, - for stdout")
	scale := fs.Float64("scale", 1, "zoom scale")
	offX := fs.Float64("x", 0, "horizontal pan offset in pixels")
	offY := fs.Float64("y", 0, "vertical pan offset in pixels")
	selected := fs.String("selected", "", "id of the marker to highlight")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, "propmap")

	var markers []core.PropertyMarker
	if cfg.Feed.File != "" {
		markers, err = feed.Load(cfg.Feed.File, logger)
		if err != nil {
			return err
		}
	}

	vp := viewport.New(float64(cfg.Window.Width), float64(cfg.Window.Height))
	vp.Scale = viewport.ClampScale(*scale)
	vp.OffsetX, vp.OffsetY = *offX, *offY
	if core.FindMarker(markers, *selected) >= 0 {
		vp.SelectedID = *selected
	}

	img := draw.NewRaster(cfg.Window.Width, cfg.Window.Height)
	draw.NewRenderer(cfg.Map.Currency, logger, nil).Render(img, vp, markers, vp.SelectedID)

	var w io.Writer = os.Stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := img.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	logger.Info().Str("output", *out).Int("markers", len(markers)).Msg("map rendered")
	return nil
}

func runServe(args []string) error {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, "propmap")
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := httpapi.NewStore(cfg.Map.Index)
	if cfg.Feed.File != "" {
		markers, err := feed.Load(cfg.Feed.File, logger)
		m.IncFeedUpdate("file", err)
		if err != nil {
			return err
		}
		store.Set(markers)
	}
	if cfg.Feed.NATSURL != "" {
		sub, err := feed.NewSubscriber(cfg.Feed.NATSURL, logger, m)
		if err != nil {
			return err
		}
		defer sub.Close()
		if err := sub.Subscribe(cfg.Feed.NATSSubject, store.Set); err != nil {
			return err
		}
	}

	renderer := draw.NewRenderer(cfg.Map.Currency, logger, m)
	h := httpapi.NewHandler(logger, m, store, renderer, cfg.Map.HitRadius)
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTP.Addr).Msg("propmap listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info().Msg("shutdown complete")
	return nil
}
