package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apierrors "github.com/pribylovaa/go-local-news/internal/http/errors"
	"github.com/pribylovaa/go-local-news/internal/models"
	"github.com/pribylovaa/go-local-news/internal/service"
)

// NewsResponse: ответ /news и /news/search.
// Error == nil сериализуется как null: данные получены от провайдера.
type NewsResponse struct {
	Articles []models.Article `json:"articles"`
	Error    *string          `json:"error"`
}

// CategoriesResponse: ответ /news/categories.
type CategoriesResponse struct {
	Categories []models.Category `json:"categories"`
}

func newsResponse(res models.Result) NewsResponse {
	out := NewsResponse{Articles: res.Articles}
	if out.Articles == nil {
		out.Articles = []models.Article{}
	}
	if res.Error != "" {
		msg := res.Error
		out.Error = &msg
	}
	return out
}

// ListNews: заголовки по категории или поиск, если задан q.
// Отказ апстрима не является ошибкой запроса: ответ 200 с резервными статьями и error.
func (h *Handlers) ListNews(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	size, err := parsePageSize(values)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	q := models.Query{
		Category:  values.Get("category"),
		Query:     values.Get("q"),
		PageSize:  size,
		Country:   values.Get("country"),
		Placement: models.Placement(values.Get("placement")),
	}

	writeJSON(w, http.StatusOK, newsResponse(h.News.FetchNews(r.Context(), q)))
}

// SearchNews: полнотекстовый поиск; q обязателен.
func (h *Handlers) SearchNews(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	text := strings.TrimSpace(values.Get("q"))
	if text == "" {
		apierrors.WriteError(w, r, fmt.Errorf("q: %w", service.ErrInvalidArgument))
		return
	}

	size, err := parsePageSize(values)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	q := models.Query{
		Query:     text,
		PageSize:  size,
		Placement: models.Placement(values.Get("placement")),
	}

	writeJSON(w, http.StatusOK, newsResponse(h.News.FetchNews(r.Context(), q)))
}

// ListCategories: фильтр категорий ленты.
func (h *Handlers) ListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: models.Categories})
}

// parsePageSize: page_size необязателен; 0 означает размер по умолчанию.
func parsePageSize(values url.Values) (int, error) {
	v := values.Get("page_size")
	if v == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("page_size: %w", service.ErrInvalidArgument)
	}

	return n, nil
}
