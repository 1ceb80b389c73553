package logger

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

var Log = logrus.New()

type ctxKey int

const (
	requestIDKey ctxKey = iota
	profileIDKey
)

// Init инициализирует структурированный логгер.
func Init(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// JSON для production, text включается через SetTextFormatter
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// ContextWithRequestID кладёт идентификатор запроса в контекст.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ContextWithProfileID кладёт идентификатор аутентифицированного профиля в контекст.
func ContextWithProfileID(ctx context.Context, profileID int64) context.Context {
	return context.WithValue(ctx, profileIDKey, profileID)
}

// RequestIDFromContext возвращает идентификатор запроса или пустую строку.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithContext возвращает entry с полями запроса: request_id, profile_id, trace_id.
func WithContext(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}
	if id := RequestIDFromContext(ctx); id != "" {
		fields["request_id"] = id
	}
	if id, ok := ctx.Value(profileIDKey).(int64); ok {
		fields["profile_id"] = id
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		fields["trace_id"] = sc.TraceID().String()
	}
	return Log.WithContext(ctx).WithFields(fields)
}
