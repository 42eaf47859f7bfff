package obs

import (
	"context"
	"log/slog"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Time logs the duration of an operation when the returned func is called.
// Typical use: defer obs.Time(ctx, "viacep.LookupPostalCode")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID := chimiddleware.GetReqID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			slog.WarnContext(ctx, "operation failed",
				"req_id", reqID,
				"op", name,
				"dur_ms", dur.Milliseconds(),
				"error", *errp,
			)
			return
		}
		slog.DebugContext(ctx, "operation",
			"req_id", reqID,
			"op", name,
			"dur_ms", dur.Milliseconds(),
		)
	}
}
