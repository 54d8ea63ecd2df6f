package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/trogers1052/portfolio-tracker/internal/alerts"
	"github.com/trogers1052/portfolio-tracker/internal/api"
	"github.com/trogers1052/portfolio-tracker/internal/app"
	"github.com/trogers1052/portfolio-tracker/internal/auth"
	"github.com/trogers1052/portfolio-tracker/internal/config"
	"github.com/trogers1052/portfolio-tracker/internal/kafka"
	"github.com/trogers1052/portfolio-tracker/internal/portfolio"
	"github.com/trogers1052/portfolio-tracker/internal/pricing"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := cfg.Log.NewLogger()

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	st, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.WithError(err).Warn("failed to close store")
		}
	}()

	var prices portfolio.PriceSource = st
	var invalidator pricing.Invalidator
	priceCache, redisClient, err := app.PriceCache(ctx, cfg, st, log)
	if err != nil {
		return err
	}
	if priceCache != nil {
		defer redisClient.Close()
		prices = priceCache
		invalidator = priceCache
		log.WithField("addr", cfg.Redis.Addr).Info("latest-price cache enabled")
	}

	var publisher kafka.Publisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
		defer producer.Close()
		publisher = producer
	}

	authn, err := auth.New(auth.Options{
		AdminEmail:    cfg.Auth.AdminEmail,
		AdminPassword: cfg.Auth.AdminPassword,
		Secret:        cfg.Auth.JWTSecret,
		TokenTTL:      cfg.Auth.TokenTTL,
		SecureCookie:  cfg.Auth.CookieSecure,
	})
	if err != nil {
		return err
	}

	evaluator := alerts.NewEvaluator(st, publisher, cfg.Portfolio.Currency, log)
	recorder := pricing.NewRecorder(st, invalidator, evaluator, publisher, log)

	handler := api.NewHandler(api.Deps{
		Store:     st,
		Prices:    prices,
		Portfolio: app.PortfolioService(cfg, st, prices),
		Recorder:  recorder,
		Publisher: publisher,
		Auth:      authn,
		Log:       log,
		Timeout:   cfg.Database.Timeout,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.SetupRoutes(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.PricesTopic, cfg.Kafka.GroupID, recorder, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Start(ctx); err != nil {
				errs <- err
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case runErr = <-errs:
		log.WithError(runErr).Error("component failed, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http server shutdown")
	}
	wg.Wait()
	return runErr
}
