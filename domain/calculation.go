package domain

type CalculationInput struct {
	Values   VariableSet `json:"values"`
	SolveFor Variable    `json:"solveFor"`
}

type CalculationResult struct {
	SolveFor            Variable          `json:"solveFor"`
	SolvedValue         float64           `json:"solvedValue"`
	Values              VariableSet       `json:"values"`
	Derived             DerivedValues     `json:"derived"`
	Formatted           map[string]string `json:"formatted"`
	MonthlyRevenue      float64           `json:"monthlyRevenue"`
	MonthlyPayment      float64           `json:"monthlyPayment"`
	RepaymentYears      string            `json:"repaymentYears"`
	EffectiveAnnualRate float64           `json:"effectiveAnnualRate"`
	FactorRateWarning   bool              `json:"factorRateWarning,omitempty"`
	ShareURL            string            `json:"shareUrl,omitempty"`
	Explanation         string            `json:"explanation,omitempty"`
}
