package service

const (
	MaxCurrencyAmount  = 1_000_000_000_000.0 // 1 trillion
	MaxFactorRate      = 100.0
	MaxPercent         = 100.0
	MaxRepaymentMonths = 1200 // 100 years

	// Size of the in-memory calculation history
	RecentCalculations = 100
)
