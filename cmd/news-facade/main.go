package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/go-local-news/internal/config"
	facadehttp "github.com/pribylovaa/go-local-news/internal/http"
	"github.com/pribylovaa/go-local-news/internal/metrics"
	"github.com/pribylovaa/go-local-news/internal/service"
	"github.com/pribylovaa/go-local-news/internal/upstream/newsapi"
	"github.com/pribylovaa/go-local-news/internal/upstream/newsdata"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting news-facade",
		slog.String("env", cfg.Env),
		slog.String("provider", cfg.Provider.Kind),
	)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	// Транспортный таймаут совпадает с timeouts.upstream: ни один запрос к провайдеру
	// не переживёт бюджет фасада.
	upstreamClient := &http.Client{Timeout: cfg.Timeouts.Upstream}

	provider, err := newProvider(cfg.Provider, upstreamClient)
	if err != nil {
		log.Error("provider_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	svc := service.New(provider, *cfg, service.WithMetrics(metrics.New(prometheus.DefaultRegisterer)))
	defer svc.Close()

	log.Info("service_initialized", slog.String("provider", provider.Name()))

	opts := facadehttp.Options{
		Logger:    log,
		Timeout:   cfg.Timeouts.Service,
		RateRPS:   cfg.RateLimit.RPS,
		RateBurst: cfg.RateLimit.Burst,
		Observer:  metrics.NewHTTPRequests(prometheus.DefaultRegisterer),
		BasePath:  "",

		TrustForwarded: cfg.RateLimit.TrustForwarded,
	}

	apiHandler := facadehttp.NewRouter(svc, opts)

	var ready int32 // 0: not ready; 1: ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/", apiHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("facade_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	log.Info("service_stopped")
}

// newProvider выбирает клиента апстрима по provider.kind.
func newProvider(cfg config.ProviderConfig, httpClient *http.Client) (service.Provider, error) {
	switch cfg.Kind {
	case config.ProviderNewsAPI:
		return newsapi.New(httpClient, newsapi.Options{
			BaseURL:  cfg.BaseURL,
			APIKey:   cfg.APIKey,
			Language: cfg.Language,
		}), nil
	case config.ProviderNewsData:
		return newsdata.New(httpClient, newsdata.Options{
			BaseURL:  cfg.BaseURL,
			APIKey:   cfg.APIKey,
			Language: cfg.Language,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q", cfg.Kind)
	}
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
