// models содержит доменные сущности news-facade.
// Эти типы используются слоями фасада, провайдеров и транспорта.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Значения по умолчанию для неполных апстрим-записей.
const (
	// CategoryGeneral: «все категории»: провайдеры трактуют отсутствие фильтра именно так.
	CategoryGeneral = "general"

	UnknownSourceID   = "unknown"
	UnknownSourceName = "Unknown Source"

	// PlaceholderImageURL подставляется, если у статьи нет обложки.
	PlaceholderImageURL = "https://images.unsplash.com/photo-1504711434969-e33886168f5c?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80"
)

// Article: нормализованная статья, отдаваемая потребителям фасада.
//
// Особенности:
//   - Title и Description всегда непустые;
//   - Category берётся из параметров запроса, а не из апстрима;
//   - PublishedAt: в UTC;
//   - сущность эфемерна: собирается заново на каждый вызов и нигде не хранится.
type Article struct {
	ID          string
	Title       string
	Description string
	URL         string
	ImageURL    string
	PublishedAt time.Time
	Source      Source
	Category    string
	Content     string
}

// Source: издатель статьи.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// articleJSON: проводной формат Article для потребителей.
type articleJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"imageUrl"`
	PublishedAt string `json:"publishedAt"`
	Source      Source `json:"source"`
	Category    string `json:"category"`
	Content     string `json:"content,omitempty"`
}

// MarshalJSON кодирует статью с ISO-8601 временем публикации.
func (a Article) MarshalJSON() ([]byte, error) {
	return json.Marshal(articleJSON{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		URL:         a.URL,
		ImageURL:    a.ImageURL,
		PublishedAt: a.PublishedAt.UTC().Format(time.RFC3339),
		Source:      a.Source,
		Category:    a.Category,
		Content:     a.Content,
	})
}

// UnmarshalJSON: обратная операция к MarshalJSON (используется клиентами и тестами).
func (a *Article) UnmarshalJSON(data []byte) error {
	var raw articleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var published time.Time
	if raw.PublishedAt != "" {
		t, err := time.Parse(time.RFC3339, raw.PublishedAt)
		if err != nil {
			return fmt.Errorf("publishedAt: %w", err)
		}
		published = t.UTC()
	}

	*a = Article{
		ID:          raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
		URL:         raw.URL,
		ImageURL:    raw.ImageURL,
		PublishedAt: published,
		Source:      raw.Source,
		Category:    raw.Category,
		Content:     raw.Content,
	}
	return nil
}

// Record: сырая запись апстрима в нейтральном для провайдеров виде.
// Любое поле может быть пустым: доводку до Article делает фасад.
type Record struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	PublishedAt string
	SourceID    string
	SourceName  string
	Content     string
}

// Placement: место вызова фасада; определяет набор резервных статей.
type Placement string

const (
	PlacementFeed  Placement = "feed"
	PlacementLocal Placement = "local"
)

// Query: параметры одного вызова фасада.
//
// При непустом Query выполняется полнотекстовый поиск, Category и Country игнорируются.
type Query struct {
	Category  string
	Query     string
	PageSize  int
	Country   string
	Placement Placement
}

// IsSearch сообщает, что запрос нужно строить как поиск, а не как заголовки.
func (q Query) IsSearch() bool {
	return strings.TrimSpace(q.Query) != ""
}

// Key: каноническая сериализация запроса для склейки одинаковых вызовов.
// Country не влияет на поиск и в ключ поиска не попадает; Category попадает всегда,
// так как переносится в каждую статью результата. Строковые поля квотируются,
// поэтому разделитель внутри значения не склеивает разные запросы.
func (q Query) Key() string {
	size := strconv.Itoa(q.PageSize)
	placement := strconv.Quote(string(q.Placement))
	if q.IsSearch() {
		return "search|" + strconv.Quote(strings.TrimSpace(q.Query)) + "|" + strconv.Quote(q.Category) + "|" + size + "|" + placement
	}

	return "headlines|" + strconv.Quote(q.Category) + "|" + strconv.Quote(q.Country) + "|" + size + "|" + placement
}

// Result: итог вызова фасада.
//
// Articles никогда не nil. Error непустой только при деградации на резервный набор
// и носит рекомендательный характер: данные в Articles пригодны к показу.
type Result struct {
	Articles []Article
	Error    string
	Degraded bool
}
