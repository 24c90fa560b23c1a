package logging

import (
	"context"
	"time"
)

const maxSpanErr = 32

// Span emits <kind>:<op>/S and returns a context carrying the logger with
// kv attached, plus an end func that emits <kind>:<op>/EOK or /EFAIL with
// the elapsed seconds. Extra attributes passed to end are logged with the
// closing line only. All span lines are INFO.
//
//	ctx, end := logging.Span(ctx, "CMD", "admin.volume.create", "resourceId", name)
//	defer func() { end(err) }()
func Span(ctx context.Context, kind, op string, kv ...any) (context.Context, func(err error, kv ...any)) {
	startAt := time.Now()
	logger := FromContext(ctx)
	if len(kv) > 0 {
		logger = logger.With(kv...)
	}
	ctx = WithLogger(ctx, logger)
	name := kind + ":" + op
	logger.Info(ctx, name+"/S")

	end := func(err error, kv ...any) {
		elapsed := time.Since(startAt).Seconds()
		if err == nil {
			logger.Info(ctx, name+"/EOK", append(kv, "err", "", "elapsed", elapsed)...)
			return
		}
		logger.Info(ctx, name+"/EFAIL", append(kv, "err", Truncate(err.Error()), "elapsed", elapsed)...)
	}
	return ctx, end
}

// Truncate shortens s for span lines.
func Truncate(s string) string {
	if len(s) > maxSpanErr {
		return s[:maxSpanErr] + "..."
	}
	return s
}
