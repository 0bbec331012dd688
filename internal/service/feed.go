package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pribylovaa/go-local-news/internal/models"
	"github.com/pribylovaa/go-local-news/internal/pkg/log"
)

// NewsFetcher: контракт фасада для потребителей (Feed, HTTP-обработчики).
type NewsFetcher interface {
	FetchNews(ctx context.Context, q models.Query) models.Result
}

// FeedState: снимок состояния ленты.
type FeedState struct {
	Articles []models.Article
	Loading  bool
	Error    string
	Query    models.Query
}

// Feed: долгоживущая лента поверх фасада: {articles, loading, error, refetch}.
//
// Каждый запуск получает собственную отмену; новый запуск отменяет предыдущий
// и увеличивает поколение. Результат устаревшего поколения в состояние не попадает.
type Feed struct {
	fetcher NewsFetcher

	mu     sync.Mutex
	state  FeedState
	gen    uint64
	cancel context.CancelFunc
	closed bool
}

// NewFeed создаёт ленту с начальным запросом. Загрузка не начинается до Load.
func NewFeed(fetcher NewsFetcher, q models.Query) *Feed {
	return &Feed{
		fetcher: fetcher,
		state:   FeedState{Query: q},
	}
}

// Load загружает ленту по текущему запросу.
func (f *Feed) Load(ctx context.Context) (FeedState, error) {
	f.mu.Lock()
	q := f.state.Query
	f.mu.Unlock()

	return f.run(ctx, q)
}

// Refetch повторяет загрузку по текущему запросу.
func (f *Feed) Refetch(ctx context.Context) (FeedState, error) {
	return f.Load(ctx)
}

// SetQuery меняет параметры ленты и загружает её заново.
func (f *Feed) SetQuery(ctx context.Context, q models.Query) (FeedState, error) {
	return f.run(ctx, q)
}

// State возвращает текущий снимок.
func (f *Feed) State() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.snapshot()
}

// Close отменяет выполняющийся запуск; последующие вызовы возвращают ErrClosed.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	f.state.Loading = false
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

func (f *Feed) run(ctx context.Context, q models.Query) (FeedState, error) {
	const op = "service.feed.run"

	f.mu.Lock()
	if f.closed {
		st := f.snapshot()
		f.mu.Unlock()
		return st, ErrClosed
	}

	f.gen++
	gen := f.gen
	if f.cancel != nil {
		f.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.state.Loading = true
	f.state.Query = q
	f.mu.Unlock()

	res := f.fetcher.FetchNews(runCtx, q)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return f.snapshot(), ErrClosed
	}
	if gen != f.gen {
		log.From(ctx).Debug("feed_result_superseded",
			slog.String("op", op),
			slog.Uint64("gen", gen),
			slog.Uint64("current", f.gen),
		)
		return f.snapshot(), ErrSuperseded
	}

	f.cancel = nil
	f.state = FeedState{
		Articles: res.Articles,
		Loading:  false,
		Error:    res.Error,
		Query:    q,
	}

	return f.snapshot(), nil
}

// snapshot копирует состояние; вызывается под f.mu.
func (f *Feed) snapshot() FeedState {
	st := f.state
	if f.state.Articles != nil {
		st.Articles = make([]models.Article, len(f.state.Articles))
		copy(st.Articles, f.state.Articles)
	}

	return st
}
