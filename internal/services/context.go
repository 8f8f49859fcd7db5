package services

import "context"

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	sourceKey   contextKey = "source"
	titleKeyKey contextKey = "title_key"
)

// WithRunID annotates context with the catalog build identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the catalog build identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSource annotates context with the backend currently being scanned.
func WithSource(ctx context.Context, source string) context.Context {
	if source == "" {
		return ctx
	}
	return context.WithValue(ctx, sourceKey, source)
}

// SourceFromContext returns the backend name if present.
func SourceFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(sourceKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithTitleKey annotates context with the title key of the entry being built.
func WithTitleKey(ctx context.Context, titleKey string) context.Context {
	if titleKey == "" {
		return ctx
	}
	return context.WithValue(ctx, titleKeyKey, titleKey)
}

// TitleKeyFromContext returns the title key if present.
func TitleKeyFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(titleKeyKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
