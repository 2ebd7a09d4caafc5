package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"hangarhub/pkg/logger"
)

// Recovery converts panics into 500 responses. Stack traces go to the log
// always; they are echoed in the response body only when exposeStack is set,
// which the composition root ties to non-production environments.
func Recovery(log *logger.Logger, exposeStack bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					stack := string(debug.Stack())
					log.Error("Panic recovered",
						"request_id", RequestIDFromContext(r.Context()),
						"error", err,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", stack,
					)

					body := map[string]any{"error": "Internal server error"}
					if exposeStack {
						body["stack"] = stack
					}

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(body)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
