// upstream описывает общую таксономию ошибок внешних новостных API.
//
// Все ошибки провайдеров фасад обрабатывает одинаково (подмена резервным набором),
// но различает их в логах и метриках через Reason.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrProviderReported: апстрим ответил 2xx, но сообщил об ошибке в теле (status=error).
	ErrProviderReported = errors.New("provider reported error")
	// ErrDecode: тело ответа не удалось разобрать.
	ErrDecode = errors.New("decode response")
)

// StatusError: апстрим вернул не-2xx HTTP-статус.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status=%d", e.Code)
}

// ProviderError: детали логической ошибки апстрима.
// Оборачивает ErrProviderReported, поэтому errors.Is(err, ErrProviderReported) == true.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s: %s", ErrProviderReported, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrProviderReported, e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error { return ErrProviderReported }

// Причины отказа для логов и метрик.
const (
	ReasonCanceled  = "canceled"
	ReasonTimeout   = "timeout"
	ReasonStatus    = "status"
	ReasonProvider  = "provider"
	ReasonDecode    = "decode"
	ReasonTransport = "transport"
)

// Reason классифицирует ошибку провайдера.
func Reason(err error) string {
	var se *StatusError

	switch {
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.As(err, &se):
		return ReasonStatus
	case errors.Is(err, ErrProviderReported):
		return ReasonProvider
	case errors.Is(err, ErrDecode):
		return ReasonDecode
	default:
		return ReasonTransport
	}
}

// CheckStatus превращает не-2xx ответ в *StatusError, предварительно вычитав тело,
// чтобы соединение вернулось в пул.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return &StatusError{Code: resp.StatusCode}
}
