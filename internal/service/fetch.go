package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pribylovaa/go-local-news/internal/models"
	"github.com/pribylovaa/go-local-news/internal/pkg/log"
	"github.com/pribylovaa/go-local-news/internal/upstream"
)

const (
	outcomeSuccess  = "success"
	outcomeFallback = "fallback"
	reasonNone      = "none"
)

// upstreamBatch: результат одного (возможно, общего) апстрим-запроса.
type upstreamBatch struct {
	articles []models.Article
}

// FetchNews возвращает не более q.PageSize нормализованных статей.
//
// Особенности:
//   - ошибка вызывающему не возвращается никогда: при любом отказе апстрима
//     (транспорт, не-2xx, ошибка в теле, отмена) отдаётся резервный набор места вызова
//     и рекомендательный Result.Error;
//   - одинаковые (по Query.Key) одновременные вызовы склеиваются в один апстрим-запрос;
//   - апстрим-запрос не привязан к отмене отдельного вызывающего и ограничен timeouts.upstream;
//     вызывающий, чей ctx завершился раньше, сразу получает резервный набор.
func (s *Service) FetchNews(ctx context.Context, q models.Query) models.Result {
	const op = "service.fetch.FetchNews"

	q = s.normalize(q)
	key := q.Key()
	name := s.provider.Name()

	ctx = log.With(ctx, slog.String("provider", name), slog.String("key", key))
	lg := log.From(ctx)
	lg.Debug("fetch_news_request",
		slog.String("op", op),
		slog.Bool("search", q.IsSearch()),
	)

	ch := s.group.DoChan(key, func() (any, error) {
		return s.fetchUpstream(ctx, q)
	})

	select {
	case <-ctx.Done():
		lg.Info("fetch_news_abandoned",
			slog.String("op", op),
			slog.String("err", ctx.Err().Error()),
		)
		return s.degrade(q, name, upstream.ReasonCanceled)

	case res := <-ch:
		if res.Shared {
			s.incCoalesced()
		}

		if res.Err != nil {
			reason := upstream.Reason(res.Err)
			lg.Warn("fetch_news_fallback",
				slog.String("op", op),
				slog.String("reason", reason),
				slog.String("err", res.Err.Error()),
			)
			return s.degrade(q, name, reason)
		}

		batch := res.Val.(upstreamBatch)
		articles := make([]models.Article, len(batch.articles))
		copy(articles, batch.articles)

		s.observeResult(name, outcomeSuccess, reasonNone)
		lg.Info("fetch_news_ok",
			slog.String("op", op),
			slog.Int("articles", len(articles)),
			slog.Bool("shared", res.Shared),
		)

		return models.Result{Articles: articles}
	}
}

// fetchUpstream: один апстрим-запрос и доводка его записей.
// Контекст отвязан от отмены вызывающего, но ограничен timeouts.upstream и Close().
func (s *Service) fetchUpstream(ctx context.Context, q models.Query) (upstreamBatch, error) {
	const op = "service.fetch.fetchUpstream"

	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeouts.Upstream)
	defer cancel()
	stop := context.AfterFunc(s.root, cancel)
	defer stop()

	name := s.provider.Name()
	start := time.Now()

	records, err := s.provider.Fetch(fctx, q)
	s.observeUpstream(name, time.Since(start))
	if err != nil {
		return upstreamBatch{}, fmt.Errorf("%s: %s: %w", op, name, err)
	}

	nowUTC := s.now().UTC()
	articles := make([]models.Article, 0, min(len(records), q.PageSize))
	seen := make(map[string]struct{}, len(records))
	dropped := 0

	for i, rec := range records {
		if len(articles) == q.PageSize {
			break
		}

		a, ok := finalizeArticle(rec, q, i, nowUTC)
		if !ok {
			dropped++
			continue
		}
		if _, dup := seen[a.ID]; dup {
			dropped++
			continue
		}
		seen[a.ID] = struct{}{}

		articles = append(articles, a)
	}

	if dropped > 0 {
		s.addDropped(name, dropped)
		log.From(ctx).Debug("fetch_records_dropped",
			slog.String("op", op),
			slog.Int("dropped", dropped),
			slog.Int("total", len(records)),
		)
	}

	return upstreamBatch{articles: articles}, nil
}

// degrade формирует результат на резервном наборе.
func (s *Service) degrade(q models.Query, provider, reason string) models.Result {
	s.observeResult(provider, outcomeFallback, reason)

	return models.Result{
		Articles: fallbackSet(q, s.now().UTC()),
		Error:    AdvisoryMessage,
		Degraded: true,
	}
}

// normalize приводит запрос к каноническому виду.
//
// Правила:
//   - Category: trim + lower, пусто -> general;
//   - PageSize <= 0 -> limits.default_page_size, > max -> limits.max_page_size;
//   - Country: trim + lower, пусто -> provider.country; для поиска не используется;
//   - Placement: неизвестное -> feed.
func (s *Service) normalize(q models.Query) models.Query {
	q.Query = strings.TrimSpace(q.Query)

	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	if q.Category == "" {
		q.Category = models.CategoryGeneral
	}

	if q.PageSize <= 0 {
		q.PageSize = s.cfg.Limits.DefaultPageSize
	}
	if s.cfg.Limits.MaxPageSize > 0 && q.PageSize > s.cfg.Limits.MaxPageSize {
		q.PageSize = s.cfg.Limits.MaxPageSize
	}

	if q.IsSearch() {
		q.Country = ""
	} else {
		q.Country = strings.ToLower(strings.TrimSpace(q.Country))
		if q.Country == "" {
			q.Country = strings.ToLower(s.cfg.Provider.Country)
		}
	}

	if q.Placement != models.PlacementLocal {
		q.Placement = models.PlacementFeed
	}

	return q
}

func (s *Service) observeResult(provider, outcome, reason string) {
	if s.metrics != nil {
		s.metrics.ObserveResult(provider, outcome, reason)
	}
}

func (s *Service) observeUpstream(provider string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveUpstream(provider, d)
	}
}

func (s *Service) addDropped(provider string, n int) {
	if s.metrics != nil {
		s.metrics.AddDropped(provider, n)
	}
}

func (s *Service) incCoalesced() {
	if s.metrics != nil {
		s.metrics.IncCoalesced()
	}
}
