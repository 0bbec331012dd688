package service

import (
	"time"

	"github.com/pribylovaa/go-local-news/internal/models"
)

// fallbackEntry: заранее подготовленная статья резервного набора.
// Age отсчитывается от момента вызова; пустая Category означает «категория запроса».
type fallbackEntry struct {
	ID          string
	Title       string
	Description string
	URL         string
	ImageURL    string
	Age         time.Duration
	Source      models.Source
	Category    string
	Content     string
}

// feedFallback: резервный набор основной ленты.
var feedFallback = []fallbackEntry{
	{
		ID:          "fallback-feed-1",
		Title:       "Local Election Results Show Record Voter Turnout",
		Description: "Citizens participated in record numbers for the latest municipal elections, with several key policy initiatives passing.",
		URL:         "https://example.com/news/1",
		ImageURL:    "https://images.unsplash.com/photo-1541872705-1f73c6400ec9?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		Age:         2 * time.Hour,
		Source:      models.Source{ID: "local-news", Name: "Local News Network"},
		Content:     "Full election coverage including detailed analysis of voting patterns and implications for local governance...",
	},
	{
		ID:          "fallback-feed-2",
		Title:       "City Council Approves Major Transportation Budget",
		Description: "New funding will improve public transit and infrastructure across the metropolitan area.",
		URL:         "https://example.com/news/2",
		ImageURL:    "https://images.unsplash.com/photo-1486312338219-ce68d2c6f44d?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		Age:         4 * time.Hour,
		Source:      models.Source{ID: "city-times", Name: "City Times"},
		Content:     "The city council unanimously approved a comprehensive transportation budget that will fund new bus routes, bike lanes, and road improvements...",
	},
	{
		ID:          "fallback-feed-3",
		Title:       "New Housing Development Plans Announced",
		Description: "Affordable housing initiative aims to address growing housing needs in the community.",
		URL:         "https://example.com/news/3",
		ImageURL:    "https://images.unsplash.com/photo-1500673922987-e212871fec22?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		Age:         6 * time.Hour,
		Source:      models.Source{ID: "housing-herald", Name: "Housing Herald"},
		Content:     "The new housing development will include 500 affordable units and is expected to break ground next spring...",
	},
}

// localFallback: резервный набор блока местных новостей.
var localFallback = []fallbackEntry{
	{
		ID:          "fallback-local-1",
		Title:       "New BART Extension Plans Approved for East Bay Expansion",
		Description: "The Metropolitan Transportation Commission has approved preliminary plans for extending BART service to reach more communities in the East Bay, with construction expected to begin in 2025.",
		URL:         "https://example.com/local/1",
		ImageURL:    "https://images.unsplash.com/photo-1488590528505-98d2b5aba04b?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		Age:         2 * time.Hour,
		Source:      models.Source{ID: "sf-chronicle", Name: "SF Chronicle"},
		Category:    "transportation",
	},
	{
		ID:          "fallback-local-2",
		Title:       "Local Restaurant Week Brings Economic Boost to Downtown",
		Description: "Participating restaurants report 40% increase in foot traffic during the annual Restaurant Week, helping local businesses recover from pandemic impacts.",
		URL:         "https://example.com/local/2",
		ImageURL:    "https://images.unsplash.com/photo-1470071459604-3b5ec3a7fe05?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		Age:         4 * time.Hour,
		Source:      models.Source{ID: "bay-area-business-journal", Name: "Bay Area Business Journal"},
		Category:    "business",
	},
	{
		ID:          "fallback-local-3",
		Title:       "City Council Approves New Affordable Housing Initiative",
		Description: "The council unanimously voted to allocate $50 million toward affordable housing development, aiming to address the ongoing housing crisis in the region.",
		URL:         "https://example.com/local/3",
		ImageURL:    "https://images.unsplash.com/photo-1500673922987-e212871fec22?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		Age:         6 * time.Hour,
		Source:      models.Source{ID: "local-gov-news", Name: "Local Gov News"},
		Category:    "politics",
	},
	{
		ID:          "fallback-local-4",
		Title:       "Tech Company Announces Major Expansion in South Bay",
		Description: "A leading technology firm plans to open a new campus, promising to create 2,000 jobs over the next three years in the South Bay area.",
		URL:         "https://example.com/local/4",
		ImageURL:    "https://images.unsplash.com/photo-1426604966848-d7adac402bff?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		Age:         8 * time.Hour,
		Source:      models.Source{ID: "techcrunch", Name: "TechCrunch"},
		Category:    "technology",
	},
}

// fallbackSet возвращает резервные статьи для места вызова q.Placement,
// обрезанные до q.PageSize. Время публикации считается от nowUTC.
func fallbackSet(q models.Query, nowUTC time.Time) []models.Article {
	entries := feedFallback
	if q.Placement == models.PlacementLocal {
		entries = localFallback
	}

	n := len(entries)
	if q.PageSize > 0 && q.PageSize < n {
		n = q.PageSize
	}

	out := make([]models.Article, 0, n)
	for _, e := range entries[:n] {
		category := e.Category
		if category == "" {
			category = q.Category
		}

		content := e.Content
		if content == "" {
			content = e.Description
		}

		out = append(out, models.Article{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			URL:         e.URL,
			ImageURL:    e.ImageURL,
			PublishedAt: nowUTC.Add(-e.Age),
			Source:      e.Source,
			Category:    category,
			Content:     content,
		})
	}

	return out
}
