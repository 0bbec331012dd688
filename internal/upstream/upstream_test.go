package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"canceled", fmt.Errorf("op: %w", context.Canceled), ReasonCanceled},
		{"timeout", fmt.Errorf("op: %w", context.DeadlineExceeded), ReasonTimeout},
		{"status", fmt.Errorf("op: %w", &StatusError{Code: 429}), ReasonStatus},
		{"provider", fmt.Errorf("op: %w", &ProviderError{Message: "bad"}), ReasonProvider},
		{"decode", fmt.Errorf("op: %w: eof", ErrDecode), ReasonDecode},
		{"transport", errors.New("dial tcp: connection refused"), ReasonTransport},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Reason(tc.err))
		})
	}
}

func TestProviderError_Message(t *testing.T) {
	t.Parallel()

	require.Equal(t, "provider reported error: rateLimited: slow down",
		(&ProviderError{Code: "rateLimited", Message: "slow down"}).Error())
	require.Equal(t, "provider reported error: boom", (&ProviderError{Message: "boom"}).Error())
}

// trackingBody: тело ответа, запоминающее, что его вычитали.
type trackingBody struct {
	io.Reader
	read bool
}

func (b *trackingBody) Read(p []byte) (int, error) {
	n, err := b.Reader.Read(p)
	if err == io.EOF {
		b.read = true
	}
	return n, err
}

func (b *trackingBody) Close() error { return nil }

func TestCheckStatus(t *testing.T) {
	t.Parallel()

	require.NoError(t, CheckStatus(&http.Response{StatusCode: http.StatusOK}))
	require.NoError(t, CheckStatus(&http.Response{StatusCode: http.StatusNoContent}))

	body := &trackingBody{Reader: strings.NewReader(`{"status":"error"}`)}
	err := CheckStatus(&http.Response{StatusCode: http.StatusTooManyRequests, Body: body})

	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusTooManyRequests, se.Code)
	require.True(t, body.read, "тело должно быть вычитано")
	require.Equal(t, "upstream status=429", err.Error())
}
