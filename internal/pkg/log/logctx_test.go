package log

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Тесты меняют slog.Default(), поэтому намеренно НЕ используют t.Parallel().

// recHandler: slog.Handler, запоминающий атрибуты последней записи (включая With).
type recHandler struct {
	base  []slog.Attr
	attrs map[string]any
}

func (h *recHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recHandler) Handle(_ context.Context, r slog.Record) error {
	out := make(map[string]any, len(h.base)+4)
	for _, a := range h.base {
		out[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.Any()
		return true
	})
	h.attrs = out
	return nil
}

func (h *recHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &recHandler{base: append(append([]slog.Attr(nil), h.base...), attrs...), attrs: h.attrs}
}

func (h *recHandler) WithGroup(string) slog.Handler { return h }

func newSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestFrom_ReturnsDefault_WhenNoLoggerInContext: без логгера в контексте From отдаёт slog.Default().
func TestFrom_ReturnsDefault_WhenNoLoggerInContext(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	def := newSilent()
	slog.SetDefault(def)

	require.Equal(t, def, From(context.Background()))
}

// TestIntoAndFrom_RoundTrip: Into кладёт логгер, From возвращает его же.
func TestIntoAndFrom_RoundTrip(t *testing.T) {
	l := newSilent()
	ctx := Into(context.Background(), l)

	require.Equal(t, l, From(ctx))
}

// TestFrom_IgnoresWrongTypeAndNil: мусор по нашему ключу и nil-логгер не ломают From.
func TestFrom_IgnoresWrongTypeAndNil(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })
	def := newSilent()
	slog.SetDefault(def)

	ctxWrong := context.WithValue(context.Background(), ctxKey{}, "not-a-logger")
	require.Equal(t, def, From(ctxWrong))

	var nilLogger *slog.Logger
	ctxNil := context.WithValue(context.Background(), ctxKey{}, nilLogger)
	require.Equal(t, def, From(ctxNil))
}

// TestWith_AddsAttrsWithoutTouchingParent: With расширяет логгер только в дочернем контексте.
func TestWith_AddsAttrsWithoutTouchingParent(t *testing.T) {
	h := &recHandler{}
	parent := Into(context.Background(), slog.New(h))

	child := With(parent, "provider", "newsapi")
	From(child).Info("x")
	require.Equal(t, "newsapi", h.attrs["provider"])

	From(parent).Info("y")
	_, has := h.attrs["provider"]
	require.False(t, has, "родительский логгер не должен получить provider")
}

// TestWith_NoArgs_ReturnsSameContext: без аргументов контекст не пересоздаётся.
func TestWith_NoArgs_ReturnsSameContext(t *testing.T) {
	ctx := Into(context.Background(), newSilent())
	require.Equal(t, ctx, With(ctx))
}

// TestInto_PreservesCancellation: Into не меняет отмену и дедлайн.
func TestInto_PreservesCancellation(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	child := Into(parent, newSilent())

	cdl, ok := child.Deadline()
	require.True(t, ok)
	pdl, _ := parent.Deadline()
	require.WithinDuration(t, pdl, cdl, time.Millisecond)

	select {
	case <-child.Done():
		require.ErrorIs(t, child.Err(), context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("ожидали дедлайн у дочернего контекста")
	}
}
