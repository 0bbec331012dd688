// newsdata реализует service.Provider поверх newsdata.io (api/1/latest).
package newsdata

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

const (
	// DefaultBaseURL: публичный адрес API.
	DefaultBaseURL = "https://newsdata.io/api/1"
	// Name: имя провайдера в логах и метриках.
	Name = "newsdata"
	// MaxSize: верхняя граница size у провайдера.
	MaxSize = 50
)

// Options: параметры клиента.
type Options struct {
	BaseURL  string
	APIKey   string
	Language string
}

// Client: HTTP-клиент newsdata.io.
//
// Обе формы запроса идут в /latest (выдача уже отсортирована по свежести):
// поиск передаёт q, заголовки: country и category.
type Client struct {
	http *http.Client
	opts Options
}

// New создаёт клиента. HTTP-клиент настраивается извне.
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
func (c *Client) BuildRequest(ctx context.Context, q models.Query) (*http.Request, error) {
	const op = "newsdata.BuildRequest"

	size := q.PageSize
	if size > MaxSize {
		size = MaxSize
	}

	params := url.Values{}
	params.Set("apikey", c.opts.APIKey)
	params.Set("size", strconv.Itoa(size))
	if c.opts.Language != "" {
		params.Set("language", c.opts.Language)
	}

	if q.IsSearch() {
		params.Set("q", strings.TrimSpace(q.Query))
	} else {
		if q.Country != "" {
			params.Set("country", q.Country)
		}
		// Категории general у newsdata.io нет: отсутствие фильтра означает все категории.
		if q.Category != "" && q.Category != models.CategoryGeneral {
			params.Set("category", q.Category)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"/latest?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// Fetch выполняет один запрос без повторов и возвращает сырые записи.
func (c *Client) Fetch(ctx context.Context, q models.Query) ([]models.Record, error) {
	const op = "newsdata.Fetch"

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

	if body.Status != "success" {
		var e errorResult
		_ = json.Unmarshal(body.Results, &e)
		if e.Message == "" {
			e.Message = "status=" + body.Status
		}
		return nil, fmt.Errorf("%s: %w", op, &upstream.ProviderError{Code: e.Code, Message: e.Message})
	}

	var items []result
	if len(body.Results) > 0 && string(body.Results) != "null" {
		if err := json.Unmarshal(body.Results, &items); err != nil {
			return nil, fmt.Errorf("%s: %w: results: %v", op, upstream.ErrDecode, err)
		}
	}

	records := make([]models.Record, 0, len(items))
	for _, it := range items {
		records = append(records, it.toRecord())
	}

	return records, nil
}
