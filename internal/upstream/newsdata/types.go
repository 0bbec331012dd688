package newsdata

import (
	"encoding/json"
	"strings"

	"github.com/pribylovaa/go-local-news/internal/models"
)

// paidOnly: заглушка, которую провайдер кладёт в поля бесплатного тарифа.
const paidOnly = "ONLY AVAILABLE IN PAID PLANS"

// response: тело ответа /latest.
// Results: массив статей при status=success и объект ошибки при status=error.
type response struct {
	Status       string          `json:"status"`
	TotalResults int             `json:"totalResults"`
	Results      json.RawMessage `json:"results"`
	NextPage     string          `json:"nextPage"`
}

type errorResult struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type result struct {
	ArticleID   string  `json:"article_id"`
	Title       *string `json:"title"`
	Link        string  `json:"link"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	// PubDate: "2006-01-02 15:04:05" в UTC.
	PubDate    string  `json:"pubDate"`
	ImageURL   *string `json:"image_url"`
	SourceID   string  `json:"source_id"`
	SourceName *string `json:"source_name"`
}

func (r result) toRecord() models.Record {
	content := deref(r.Content)
	if strings.EqualFold(strings.TrimSpace(content), paidOnly) {
		content = ""
	}

	return models.Record{
		Title:       deref(r.Title),
		Description: deref(r.Description),
		URL:         r.Link,
		ImageURL:    deref(r.ImageURL),
		PublishedAt: r.PubDate,
		SourceID:    r.SourceID,
		SourceName:  deref(r.SourceName),
		Content:     content,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
