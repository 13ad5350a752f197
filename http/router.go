package http

import (
	"log/slog"
	"net/http"
)

// NewRouter wires the calculator routes. Every /rbf/ route shares the
// limiter.
func NewRouter(
	logger *slog.Logger,
	limiter *RateLimiter,
	calculator *CalculatorHandler,
	explanation *ExplanationHandler,
) http.Handler {
	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimitMiddleware(limiter, h)
	}

	mux := http.NewServeMux()
	mux.Handle("/rbf/calculate", limited(calculator.Calculate))
	mux.Handle("/rbf/share", limited(calculator.Share))
	mux.Handle("/rbf/recent", limited(calculator.Recent))
	mux.Handle("/rbf/explain", limited(explanation.Explain))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	return RequestMiddleware(logger, mux)
}
