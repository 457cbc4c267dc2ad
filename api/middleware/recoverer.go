package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/menuorders-backend/api/responses"
	pkgerrors "github.com/angelmondragon/menuorders-backend/pkg/errors"
	"github.com/angelmondragon/menuorders-backend/pkg/logger"
)

// Recoverer turns a handler panic into INTERNAL_ERROR. When the handler had
// already started the response only the log entry is written.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tracked := &startTracker{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err := pkgerrors.Wrap(pkgerrors.CodeInternal, fmt.Errorf("panic: %v", rec), "panic")
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"panic":            fmt.Sprint(rec),
						"response_started": tracked.started,
					})
				}
				if tracked.started {
					if logg != nil {
						logg.Error(ctx, "panic.after_response_started", err)
					}
					return
				}
				responses.WriteError(ctx, logg, w, err)
			}()
			next.ServeHTTP(tracked, r)
		})
	}
}

type startTracker struct {
	http.ResponseWriter
	started bool
}

func (t *startTracker) WriteHeader(code int) {
	t.started = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *startTracker) Write(b []byte) (int, error) {
	t.started = true
	return t.ResponseWriter.Write(b)
}
