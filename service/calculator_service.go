package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"rbf-calc/domain"
	"rbf-calc/repository"
)

type CalculatorService struct {
	repo     repository.CalculationRepository
	cache    repository.CacheRepository
	location Location
}

// NewCalculatorService creates a CalculatorService. Share URLs are built
// on location.
func NewCalculatorService(
	repo repository.CalculationRepository,
	cache repository.CacheRepository,
	location Location,
) *CalculatorService {
	return &CalculatorService{repo: repo, cache: cache, location: location}
}

// Calculate recomputes the selected variable from the other five and
// returns the full display state.
func (s *CalculatorService) Calculate(
	ctx context.Context,
	input domain.CalculationInput,
) (domain.CalculationResult, error) {

	if input.SolveFor == "" {
		input.SolveFor = domain.DefaultSolveFor
	}
	if !input.SolveFor.IsSolvable() {
		return domain.CalculationResult{}, fmt.Errorf("%w: %q", ErrUnknownVariable, input.SolveFor)
	}
	if err := validateInputs(input.Values, input.SolveFor); err != nil {
		return domain.CalculationResult{}, err
	}

	key := cacheKey(input)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var result domain.CalculationResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return result, nil
		}
		slog.Warn("discarding unreadable cache entry", "key", key)
	}

	result, err := s.compute(input)
	if err != nil {
		return domain.CalculationResult{}, err
	}

	// Cache and repository failures are not fatal
	if encoded, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, string(encoded)); err != nil {
			slog.Warn("failed to cache calculation", "key", key, "error", err)
		}
	}
	if err := s.repo.Save(input, result); err != nil {
		slog.Warn("failed to save calculation", "error", err)
	}

	return result, nil
}

// CalculateQuery decodes a share URL query string the way a page load
// does, falling back to defaults, and calculates it.
func (s *CalculatorService) CalculateQuery(
	ctx context.Context,
	rawQuery string,
) (domain.CalculationResult, error) {
	params := DecodeURL(rawQuery)
	return s.Calculate(ctx, domain.CalculationInput{
		Values:   params.VariableSet(),
		SolveFor: params.Selector(),
	})
}

// ShareURL returns the absolute link that restores vs and selector.
func (s *CalculatorService) ShareURL(vs domain.VariableSet, selector domain.Variable) string {
	return EncodeState(s.location, vs, selector)
}

func (s *CalculatorService) Recent(limit int) []domain.CalculationResult {
	return s.repo.Recent(limit)
}

func (s *CalculatorService) compute(input domain.CalculationInput) (domain.CalculationResult, error) {
	values := Recompute(input.Values, input.SolveFor)
	solved := values.Get(input.SolveFor)
	if math.IsNaN(solved) || math.IsInf(solved, 0) {
		return domain.CalculationResult{}, fmt.Errorf("%w: solving for %s", ErrNonFiniteResult, input.SolveFor)
	}

	return domain.CalculationResult{
		SolveFor:            input.SolveFor,
		SolvedValue:         solved,
		Values:              values,
		Derived:             values.Derived(),
		Formatted:           FormatAll(values),
		MonthlyRevenue:      MonthlyRevenue(values),
		MonthlyPayment:      MonthlyPayment(values),
		RepaymentYears:      RepaymentYears(values.RepaymentPeriod),
		EffectiveAnnualRate: EffectiveAnnualRate(values.FactorRate, values.RepaymentPeriod),
		FactorRateWarning:   IsFactorRateLow(values.FactorRate),
		ShareURL:            s.ShareURL(values, input.SolveFor),
	}, nil
}

// cacheKey is the canonical query string of the input. The selected
// variable stays in the key: some solvers read it (profitMargin passes
// through unchanged).
func cacheKey(input domain.CalculationInput) string {
	values := input.Values.Values()
	return strings.TrimPrefix(EncodeURL(Location{}, values, input.SolveFor), "?")
}

type bound struct {
	max float64
}

var bounds = map[domain.Variable]bound{
	domain.FactorRate:       {max: MaxFactorRate},
	domain.AmountReceived:   {max: MaxCurrencyAmount},
	domain.RevenueShareRate: {max: MaxPercent},
	domain.RepaymentPeriod:  {max: MaxRepaymentMonths},
	domain.ProfitMargin:     {max: MaxPercent},
	domain.AnnualRevenue:    {max: MaxCurrencyAmount},
}

// validateInputs checks the five authoritative inputs. The selected
// variable is transient and is not checked.
func validateInputs(vs domain.VariableSet, selector domain.Variable) error {
	for _, v := range domain.Solvable {
		if v == selector {
			continue
		}
		value := vs.Get(v)
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("%w: %s is not a number", ErrInvalidValue, v)
		}
		if value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidValue, v)
		}
		if b := bounds[v]; value > b.max {
			return fmt.Errorf("%w: %s exceeds the maximum of %s", ErrInvalidValue, v, Format(v, b.max))
		}
	}
	return nil
}
