package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/go-local-news/internal/pkg/log"
)

// Timeout ограничивает обработку запроса бюджетом timeouts.service.
//
// Итоговый дедлайн: более ранний из унаследованного и now+budget, поэтому
// ни клиентский контекст, ни вышестоящий мидлвар не могут его расширить.
// budget <= 0 отключает ограничение.
func Timeout(budget time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if budget <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), budget)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				log.From(ctx).Warn("request_budget_exceeded",
					slog.String("path", r.URL.Path),
					slog.Duration("budget", budget),
				)
			}
		})
	}
}
