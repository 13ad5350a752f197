package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"rbf-calc/domain"
	"rbf-calc/service"
)

type CalculatorHandler struct {
	service *service.CalculatorService
}

func NewCalculatorHandler(service *service.CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{service: service}
}

// Calculate accepts either the share-URL query string (GET) or a JSON
// CalculationInput (POST). Fields missing from the body keep their
// defaults.
func (h *CalculatorHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var (
		result domain.CalculationResult
		err    error
	)

	switch r.Method {
	case http.MethodGet:
		result, err = h.service.CalculateQuery(r.Context(), r.URL.RawQuery)
	case http.MethodPost:
		input, ok := decodeInput(w, r)
		if !ok {
			return
		}
		result, err = h.service.Calculate(r.Context(), input)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// Share returns the canonical link for the state in the query string.
func (h *CalculatorHandler) Share(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	params := service.DecodeURL(r.URL.RawQuery)
	writeJSON(w, r, http.StatusOK, map[string]string{
		"url": h.service.ShareURL(params.VariableSet(), params.Selector()),
	})
}

// Recent lists the latest calculations of this process.
func (h *CalculatorHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	writeJSON(w, r, http.StatusOK, h.service.Recent(limit))
}

func decodeInput(w http.ResponseWriter, r *http.Request) (domain.CalculationInput, bool) {
	input := domain.CalculationInput{Values: domain.DefaultVariableSet()}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		slog.DebugContext(r.Context(), "error decoding request body", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return domain.CalculationInput{}, false
	}
	return input, true
}
