package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"prenoms/internal/api"
	"prenoms/internal/config"
	"prenoms/internal/engine"
	"prenoms/internal/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	// 1. Initialize Echo (Starts Instantly)
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	// 2. Initialize Handler with no snapshot.
	// The API is "live" but answers 503 until the load below publishes data.
	b := views.NewBuilder()
	h := api.NewHandler(b, cfg.RankDepth)
	h.RegisterRoutes(e)

	// 3. Load in Background
	go func() {
		slog.Info("loading dataset", "data", cfg.DataPath, "geo", cfg.GeoPath)
		t0 := time.Now()

		opts := engine.LoadOptions{YearMin: cfg.YearMin, YearMax: cfg.YearMax}
		if err := b.LoadAll(context.Background(), cfg.DataPath, cfg.GeoPath, opts); err != nil {
			slog.Error("dataset load failed", "error", err)
			os.Exit(1)
		}

		slog.Info("dataset ready", "elapsed", time.Since(t0))
	}()

	// 4. Start Server
	slog.Info("server starting", "port", cfg.Port)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
