// newsapi реализует service.Provider поверх NewsAPI.org (v2).
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pribylovaa/go-local-news/internal/models"
	"github.com/pribylovaa/go-local-news/internal/pkg/log"
	"github.com/pribylovaa/go-local-news/internal/pkg/redact"
	"github.com/pribylovaa/go-local-news/internal/upstream"
)

// DefaultBaseURL: публичный адрес API.
const DefaultBaseURL = "https://newsapi.org/v2"

// Name: имя провайдера в логах и метриках.
const Name = "newsapi"

// Options: параметры клиента.
type Options struct {
	BaseURL  string
	APIKey   string
	Language string
}

// Client: HTTP-клиент NewsAPI.org.
//
// Две формы запроса:
//   - /top-headlines: заголовки по стране и категории (category=general не передаётся);
//   - /everything: полнотекстовый поиск, отсортированный по свежести.
type Client struct {
	http *http.Client
	opts Options
}

// New создаёт клиента. HTTP-клиент настраивается извне (таймауты, прокси и т.д.).
func New(httpClient *http.Client, opts Options) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	return &Client{http: httpClient, opts: opts}
}

// Name возвращает имя провайдера.
func (c *Client) Name() string { return Name }

// BuildRequest собирает GET-запрос выбранной формы.
// Ключ API передаётся в query string, как того требует провайдер.
func (c *Client) BuildRequest(ctx context.Context, q models.Query) (*http.Request, error) {
	const op = "newsapi.BuildRequest"

	params := url.Values{}
	params.Set("apiKey", c.opts.APIKey)
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	if c.opts.Language != "" {
		params.Set("language", c.opts.Language)
	}

	endpoint := c.opts.BaseURL
	if q.IsSearch() {
		endpoint += "/everything"
		params.Set("q", strings.TrimSpace(q.Query))
		params.Set("sortBy", "publishedAt")
	} else {
		endpoint += "/top-headlines"
		if q.Country != "" {
			params.Set("country", q.Country)
		}
		if q.Category != "" && q.Category != models.CategoryGeneral {
			params.Set("category", q.Category)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// Fetch выполняет один запрос без повторов и возвращает сырые записи.
func (c *Client) Fetch(ctx context.Context, q models.Query) ([]models.Record, error) {
	const op = "newsapi.Fetch"

	req, err := c.BuildRequest(ctx, q)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		err = redact.Error(err)
		log.From(ctx).Warn("http_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: do: %w", op, err)
	}
	defer resp.Body.Close()

	if err := upstream.CheckStatus(resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, upstream.ErrDecode, err)
	}

	if body.Status == "error" {
		msg := body.Message
		if msg == "" {
			msg = "Failed to fetch news"
		}
		return nil, fmt.Errorf("%s: %w", op, &upstream.ProviderError{Code: body.Code, Message: msg})
	}

	records := make([]models.Record, 0, len(body.Articles))
	for _, a := range body.Articles {
		records = append(records, a.toRecord())
	}

	return records, nil
}
