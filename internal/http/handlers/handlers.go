package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pribylovaa/go-local-news/internal/service"
)

// Handlers агрегирует зависимости обработчиков.
type Handlers struct {
	News service.NewsFetcher
}

func New(news service.NewsFetcher) *Handlers {
	return &Handlers{News: news}
}

// writeJSON: единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
