package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-local-news/internal/models"
)

// finalizeArticle доводит сырую запись до инвариантов Article:
//   - Title/Description обязательны (после TrimSpace): иначе запись отбрасывается;
//   - ImageURL := ImageURL || PlaceholderImageURL;
//   - Source.ID/Name := значение || unknown/Unknown Source;
//   - Content := Content || Description;
//   - PublishedAt := разобранное значение (UTC) || nowUTC;
//   - Category := категория запроса.
//
// Возвращает (статья, ok=false если запись следует отбросить).
func finalizeArticle(rec models.Record, q models.Query, idx int, nowUTC time.Time) (models.Article, bool) {
	title := strings.TrimSpace(rec.Title)
	desc := strings.TrimSpace(rec.Description)

	if title == "" || desc == "" {
		return models.Article{}, false
	}

	link := strings.TrimSpace(rec.URL)

	image := strings.TrimSpace(rec.ImageURL)
	if image == "" {
		image = models.PlaceholderImageURL
	}

	src := models.Source{
		ID:   strings.TrimSpace(rec.SourceID),
		Name: strings.TrimSpace(rec.SourceName),
	}
	if src.ID == "" {
		src.ID = models.UnknownSourceID
	}
	if src.Name == "" {
		src.Name = models.UnknownSourceName
	}

	content := strings.TrimSpace(rec.Content)
	if content == "" {
		content = desc
	}

	published, err := parsePublishedAt(rec.PublishedAt)
	if err != nil {
		published = nowUTC
	}

	return models.Article{
		ID:          articleID(link, idx, nowUTC),
		Title:       title,
		Description: desc,
		URL:         link,
		ImageURL:    image,
		PublishedAt: published,
		Source:      src,
		Category:    q.Category,
		Content:     content,
	}, true
}

// articleID возвращает идентификатор статьи.
//
// При наличии URL: UUIDv5 от него: стабилен между перезапросами и провайдерами.
// Без URL остаётся только синтетический "<unixnano>-<index>", уникальный в пределах пачки.
func articleID(link string, idx int, nowUTC time.Time) string {
	if link != "" {
		return uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String()
	}

	return strconv.FormatInt(nowUTC.UnixNano(), 10) + "-" + strconv.Itoa(idx)
}

// parsePublishedAt пробует форматы известных провайдеров и возвращает UTC-время.
func parsePublishedAt(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}

	layouts := []string{
		time.RFC3339Nano,      // 2006-01-02T15:04:05.999999999Z07:00 (NewsAPI)
		"2006-01-02 15:04:05", // newsdata.io, UTC без смещения
		time.RFC1123Z,
		time.RFC1123,
	}

	var lastErr error
	for _, l := range layouts {
		t, err := time.Parse(l, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}

	return time.Time{}, lastErr
}
