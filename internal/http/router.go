package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/go-local-news/internal/http/errors"
	"github.com/pribylovaa/go-local-news/internal/http/handlers"
	"github.com/pribylovaa/go-local-news/internal/http/middleware"
	"github.com/pribylovaa/go-local-news/internal/service"
)

// Options: параметры сборки HTTP-роутера.
type Options struct {
	Logger    *slog.Logger
	Timeout   time.Duration
	RateRPS   float64 // <= 0: без ограничения.
	RateBurst int
	Observer  middleware.RequestObserver // nil: без метрик HTTP.
	BasePath  string                     // например, "/api"; если пустой: роуты регистрируются на корне.

	// TrustForwarded: ключ лимитера из X-Forwarded-For (только за доверенным прокси).
	TrustForwarded bool
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(news service.NewsFetcher, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний). RequestID обязан стоять до Logging,
	// RateLimit до Timeout: отклонённый запрос не должен занимать дедлайн.
	root.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Logging(opts.Logger),
		middleware.Metrics(opts.Observer),
		middleware.RateLimit(opts.RateRPS, opts.RateBurst, opts.TrustForwarded),
		middleware.Timeout(opts.Timeout),
	)

	root.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apierrors.WriteError(w, r, apierrors.ErrNotFound)
	})
	root.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apierrors.WriteError(w, r, apierrors.ErrMethodNotAllowed)
	})

	h := handlers.New(news)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes: единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	r.Get("/news", h.ListNews)
	r.Get("/news/search", h.SearchNews)
	r.Get("/news/categories", h.ListCategories)
}
