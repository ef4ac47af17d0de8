package common

import "context"

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID кладёт ID апдейта в контекст, чтобы связать строки логов одного шага.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

// RequestID возвращает ID апдейта или "" если его нет.
func RequestID(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey).(string)
	return rid
}
