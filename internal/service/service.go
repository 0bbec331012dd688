// service содержит фасад получения новостей: нормализация запроса, один поход
// в апстрим, доводка записей и подмена резервным набором при любой ошибке.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/go-local-news/internal/config"
	"github.com/pribylovaa/go-local-news/internal/models"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrInvalidArgument: некорректные входные аргументы (проверяется транспортом).
	// Транспорт: 400 invalid_argument.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSuperseded: результат Feed отброшен: его перекрыл более новый вызов.
	ErrSuperseded = errors.New("superseded by a newer fetch")
	// ErrClosed: Feed закрыт.
	ErrClosed = errors.New("feed closed")
)

// AdvisoryMessage: текст рекомендательной ошибки при деградации на резервный набор.
const AdvisoryMessage = "Failed to fetch news articles. Please try again later."

// Provider описывает внешний новостной API.
//
// Требования к реализации:
//  1. ровно один исходящий запрос на вызов, без повторов;
//  2. форма запроса выбирается по q.IsSearch(): поиск или заголовки;
//  3. не-2xx, ошибка в теле ответа и транспортные ошибки возвращаются как error;
//  4. реализация обязана уважать ctx (отмена/таймауты).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, q models.Query) ([]models.Record, error)
}

// Metrics: наблюдаемость фасада. nil допустим.
type Metrics interface {
	// ObserveResult учитывает итог вызова фасада (outcome: success|fallback).
	ObserveResult(provider, outcome, reason string)
	// ObserveUpstream учитывает длительность одного апстрим-запроса.
	ObserveUpstream(provider string, d time.Duration)
	// AddDropped учитывает записи, отброшенные при доводке.
	AddDropped(provider string, n int)
	// IncCoalesced учитывает вызов, обслуженный общим апстрим-запросом.
	IncCoalesced()
}

// Service: фасад над Provider.
type Service struct {
	provider Provider
	cfg      config.Config
	metrics  Metrics
	now      func() time.Time

	group singleflight.Group

	// root ограничивает жизнь отвязанных от вызывающих апстрим-запросов.
	root   context.Context
	cancel context.CancelFunc
}

// Option: необязательная настройка Service.
type Option func(*Service)

// WithMetrics подключает метрики.
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock подменяет источник времени (используется в тестах).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New создаёт новый экземпляр Service.
func New(provider Provider, cfg config.Config, opts ...Option) *Service {
	root, cancel := context.WithCancel(context.Background())

	s := &Service{
		provider: provider,
		cfg:      cfg,
		now:      time.Now,
		root:     root,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Close прерывает все апстрим-запросы, которые ещё выполняются.
func (s *Service) Close() {
	s.cancel()
}
