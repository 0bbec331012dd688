// redact убирает секреты из строк, попадающих в логи и ошибки.
// Ключ апстрима передаётся в query string, поэтому любой URL запроса к провайдеру
// считается чувствительным.
package redact

import (
	"errors"
	"net/url"
	"regexp"
)

// Placeholder заменяет значение секрета.
const Placeholder = "[REDACTED]"

// apiKeyParam ловит apiKey=..., apikey=..., api_key=... в любом регистре.
var apiKeyParam = regexp.MustCompile(`(?i)(\bapi_?key=)[^&\s"']+`)

// URL маскирует значения параметров ключа API. Остальная строка не меняется.
func URL(s string) string {
	return apiKeyParam.ReplaceAllString(s, "${1}"+Placeholder)
}

// Error маскирует URL внутри *url.Error на месте и возвращает ту же ошибку:
// цепочка errors.Is/As (context.Canceled, DeadlineExceeded) сохраняется.
func Error(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = URL(ue.URL)
	}

	return err
}
