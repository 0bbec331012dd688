package models

// Category: пункт фильтра категорий ленты.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Categories: фильтр категорий в порядке показа; general означает «все».
var Categories = []Category{
	{ID: CategoryGeneral, Label: "All"},
	{ID: "politics", Label: "Politics"},
	{ID: "business", Label: "Business"},
	{ID: "technology", Label: "Technology"},
	{ID: "education", Label: "Education"},
	{ID: "health", Label: "Health"},
}
