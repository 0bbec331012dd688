package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RequestObserver принимает итог запроса (шаблон маршрута и статус).
type RequestObserver interface {
	Observe(route string, status int)
}

// Metrics учитывает ответы по шаблону маршрута chi (например, "/news/search"),
// чтобы значения query не раздували кардинальность. nil делает мидлвар no-op.
func Metrics(obs RequestObserver) Middleware {
	return func(next http.Handler) http.Handler {
		if obs == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			obs.Observe(route, sw.Status())
		})
	}
}
