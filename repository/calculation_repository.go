package repository

import "rbf-calc/domain"

type CalculationRepository interface {
	Save(input domain.CalculationInput, result domain.CalculationResult) error
	Recent(limit int) []domain.CalculationResult
}
