package cmd

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/spf13/pflag"

	"rbf-calc/domain"
	"rbf-calc/service"
)

// stateFlags binds one flag per solvable variable plus --solve-for and
// --from-url.
type stateFlags struct {
	values   map[domain.Variable]*float64
	solveFor string
	fromURL  string
}

func newStateFlags(fs *pflag.FlagSet) *stateFlags {
	sf := &stateFlags{values: make(map[domain.Variable]*float64, len(domain.Solvable))}
	defaults := domain.DefaultVariableSet()
	for _, v := range domain.Solvable {
		sf.values[v] = fs.Float64(flagName(v), defaults.Get(v), v.Label())
	}
	fs.StringVar(&sf.solveFor, "solve-for", "", "variable to solve for (default repaymentPeriod)")
	fs.StringVar(&sf.fromURL, "from-url", "", "start from the state in a share link")
	return sf
}

// flagName turns factorRate into factor-rate.
func flagName(v domain.Variable) string {
	var b strings.Builder
	for _, r := range string(v) {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// resolve layers explicitly set flags over the --from-url state, which
// itself falls back to the defaults.
func (sf *stateFlags) resolve(fs *pflag.FlagSet) (domain.CalculationInput, error) {
	params := service.Params{}
	if sf.fromURL != "" {
		_, rawQuery, err := service.ParseLocation(sf.fromURL)
		if err != nil {
			return domain.CalculationInput{}, fmt.Errorf("parsing --from-url: %w", err)
		}
		params = service.DecodeURL(rawQuery)
	}

	input := domain.CalculationInput{
		Values:   params.VariableSet(),
		SolveFor: params.Selector(),
	}
	for _, v := range domain.Solvable {
		if fs.Changed(flagName(v)) {
			input.Values = input.Values.With(v, *sf.values[v])
		}
	}
	if sf.solveFor != "" {
		v, ok := domain.ParseVariable(sf.solveFor)
		if !ok {
			return domain.CalculationInput{}, fmt.Errorf("%w: %q", service.ErrUnknownVariable, sf.solveFor)
		}
		input.SolveFor = v
	}
	return input, nil
}
