package http

import (
	"net/http"

	"rbf-calc/service"
)

type ExplanationHandler struct {
	calculator *service.CalculatorService
	explainer  *service.ExplanationService
}

func NewExplanationHandler(
	calculator *service.CalculatorService,
	explainer *service.ExplanationService,
) *ExplanationHandler {
	return &ExplanationHandler{calculator: calculator, explainer: explainer}
}

func (h *ExplanationHandler) Explain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	result, err := h.calculator.Calculate(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	result.Explanation = h.explainer.Explain(r.Context(), result)

	writeJSON(w, r, http.StatusOK, result)
}
