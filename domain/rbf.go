package domain

// VariableSet holds the six user-settable quantities of an RBF deal.
// Repayment obligation and cost of capital are not stored here; use Derived.
type VariableSet struct {
	FactorRate       float64 `json:"factorRate"`
	AmountReceived   float64 `json:"amountReceived"`
	RevenueShareRate float64 `json:"revenueShareRate"`
	RepaymentPeriod  float64 `json:"repaymentPeriod"`
	ProfitMargin     float64 `json:"profitMargin"`
	AnnualRevenue    float64 `json:"annualRevenue"`
}

// DerivedValues are always recomputed from a VariableSet.
type DerivedValues struct {
	RepaymentObligation float64 `json:"repaymentObligation"`
	CostOfCapital       float64 `json:"costOfCapital"`
}

// DefaultVariableSet is the state of a fresh calculator.
func DefaultVariableSet() VariableSet {
	return VariableSet{
		FactorRate:       1.5,
		AmountReceived:   5000,
		RevenueShareRate: 5,
		RepaymentPeriod:  24,
		ProfitMargin:     16,
		AnnualRevenue:    22000,
	}
}

func (vs VariableSet) Derived() DerivedValues {
	obligation := vs.AmountReceived * vs.FactorRate
	return DerivedValues{
		RepaymentObligation: obligation,
		CostOfCapital:       obligation - vs.AmountReceived,
	}
}

// Get returns the value named by v, including the derived ones.
// Unknown names return 0.
func (vs VariableSet) Get(v Variable) float64 {
	switch v {
	case FactorRate:
		return vs.FactorRate
	case AmountReceived:
		return vs.AmountReceived
	case RevenueShareRate:
		return vs.RevenueShareRate
	case RepaymentPeriod:
		return vs.RepaymentPeriod
	case ProfitMargin:
		return vs.ProfitMargin
	case AnnualRevenue:
		return vs.AnnualRevenue
	case RepaymentObligation:
		return vs.Derived().RepaymentObligation
	case CostOfCapital:
		return vs.Derived().CostOfCapital
	}
	return 0
}

// With returns a copy of vs with v set to value. Derived and unknown names
// leave the set unchanged.
func (vs VariableSet) With(v Variable, value float64) VariableSet {
	switch v {
	case FactorRate:
		vs.FactorRate = value
	case AmountReceived:
		vs.AmountReceived = value
	case RevenueShareRate:
		vs.RevenueShareRate = value
	case RepaymentPeriod:
		vs.RepaymentPeriod = value
	case ProfitMargin:
		vs.ProfitMargin = value
	case AnnualRevenue:
		vs.AnnualRevenue = value
	}
	return vs
}

// Values flattens the set into a name-keyed map of the six independent
// variables.
func (vs VariableSet) Values() map[string]float64 {
	m := make(map[string]float64, len(Solvable))
	for _, v := range Solvable {
		m[string(v)] = vs.Get(v)
	}
	return m
}
