package obs

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID returns a context carrying the request id used by Time and Logger.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Logger returns an entry tagged with the request id found in ctx, if any.
func Logger(ctx context.Context) *log.Entry {
	reqID, _ := ctx.Value(RequestIDKey).(string)
	return log.WithField("req_id", reqID)
}

// Time logs the duration of an operation when the returned func is deferred:
//
//	defer obs.Time(ctx, "op")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		entry := Logger(ctx).WithFields(log.Fields{
			"op":     name,
			"dur_ms": time.Since(start).Milliseconds(),
		})

		if errp != nil && *errp != nil {
			entry.WithError(*errp).Warn("operation failed")
			return
		}
		entry.Debug("operation done")
	}
}
