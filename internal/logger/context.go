package logger

import "context"

type loggerKey struct{}

func WithLogger(ctx context.Context, log Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

// Retrieve the logger stored in ctx. A no-op logger is returned
// if none was set, so callers never need to nil-check.
func FromContext(ctx context.Context) Logger {
	if ctx == nil {
		return NewNoOpLogger()
	}

	log, ok := ctx.Value(loggerKey{}).(Logger)
	if !ok || log == nil {
		return NewNoOpLogger()
	}

	return log
}
