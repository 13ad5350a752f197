package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"rbf-calc/domain"
)

const (
	defaultChatURL   = "https://api.openai.com/v1/chat/completions"
	defaultChatModel = "gpt-4o-mini"
)

// ExplanationService turns a calculation into a short narrative. Without
// an API key it writes a fixed template.
type ExplanationService struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewExplanationService(apiKey string) *ExplanationService {
	return &ExplanationService{
		apiKey: apiKey,
		apiURL: defaultChatURL,
		model:  defaultChatModel,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithEndpoint points the service at another chat-completions URL.
func (s *ExplanationService) WithEndpoint(apiURL string) *ExplanationService {
	s.apiURL = apiURL
	return s
}

func (s *ExplanationService) Enabled() bool {
	return s.apiKey != ""
}

// Explain describes the terms in result. Model failures fall back to the
// template text and are only logged.
func (s *ExplanationService) Explain(ctx context.Context, result domain.CalculationResult) string {
	if !s.Enabled() {
		return FallbackExplanation(result)
	}

	explanation, err := s.callLLM(ctx, explanationPrompt(result))
	if err != nil {
		slog.Warn("explanation model call failed", "error", err)
		return FallbackExplanation(result)
	}
	return explanation
}

func explanationPrompt(r domain.CalculationResult) string {
	return fmt.Sprintf(`Explain these revenue-based financing terms to a small business owner in 3-4 sentences.

TERMS:
- Amount received: %s
- Factor rate: %s
- Repayment obligation: %s
- Cost of capital: %s
- Revenue share: %s of monthly revenue (%s per month on %s annual revenue)
- Repayment period: %s (%s years)
- Effective annual rate: %.2f%%
- The value being solved for is %s.

Mention whether the factor rate is reasonable and how revenue changes would shorten or lengthen repayment.`,
		r.Formatted[string(domain.AmountReceived)],
		r.Formatted[string(domain.FactorRate)],
		r.Formatted[string(domain.RepaymentObligation)],
		r.Formatted[string(domain.CostOfCapital)],
		r.Formatted[string(domain.RevenueShareRate)],
		fmt.Sprintf("$%.2f", r.MonthlyPayment),
		r.Formatted[string(domain.AnnualRevenue)],
		r.Formatted[string(domain.RepaymentPeriod)],
		r.RepaymentYears,
		r.EffectiveAnnualRate,
		r.SolveFor.Label(),
	)
}

func (s *ExplanationService) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "You are a financial advisor who explains revenue-based financing clearly and without jargon. Always quote the dollar amounts you are given.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens: 300,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", err
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// FallbackExplanation is the template used when no model is available.
func FallbackExplanation(r domain.CalculationResult) string {
	text := fmt.Sprintf(
		"You receive %s and repay %s in total, so the financing costs %s. "+
			"At %s of revenue you pay about $%.2f a month, which clears the balance in %s (%s years), "+
			"an effective annual rate of %.2f%%.",
		r.Formatted[string(domain.AmountReceived)],
		r.Formatted[string(domain.RepaymentObligation)],
		r.Formatted[string(domain.CostOfCapital)],
		r.Formatted[string(domain.RevenueShareRate)],
		r.MonthlyPayment,
		r.Formatted[string(domain.RepaymentPeriod)],
		r.RepaymentYears,
		r.EffectiveAnnualRate,
	)
	if r.FactorRateWarning {
		text += " A factor rate of 1.00x or less means the financier earns nothing on these terms."
	}
	return text
}
