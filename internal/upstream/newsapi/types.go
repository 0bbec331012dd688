package newsapi

import "github.com/pribylovaa/go-local-news/internal/models"

// response: тело ответа /top-headlines и /everything.
// При status="error" заполнены Code и Message, Articles пуст.
type response struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
}

type article struct {
	Source      source  `json:"source"`
	Author      *string `json:"author"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	PublishedAt string  `json:"publishedAt"`
	Content     *string `json:"content"`
}

// source: у многих записей id приходит null.
type source struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

func (a article) toRecord() models.Record {
	return models.Record{
		Title:       deref(a.Title),
		Description: deref(a.Description),
		URL:         a.URL,
		ImageURL:    deref(a.URLToImage),
		PublishedAt: a.PublishedAt,
		SourceID:    deref(a.Source.ID),
		SourceName:  deref(a.Source.Name),
		Content:     deref(a.Content),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
