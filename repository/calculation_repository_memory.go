package repository

import (
	"sync"

	"rbf-calc/domain"
)

// CalculationRepositoryMemory keeps the most recent calculations of this
// process in a bounded ring. Nothing outlives the process.
type CalculationRepositoryMemory struct {
	mu       sync.Mutex
	capacity int
	data     []domain.CalculationResult
}

// NewCalculationRepositoryMemory creates a repository holding at most
// capacity results.
func NewCalculationRepositoryMemory(capacity int) *CalculationRepositoryMemory {
	if capacity <= 0 {
		capacity = 100
	}
	return &CalculationRepositoryMemory{
		capacity: capacity,
		data:     make([]domain.CalculationResult, 0, capacity),
	}
}

// Save stores the result, evicting the oldest one when full.
func (r *CalculationRepositoryMemory) Save(
	input domain.CalculationInput,
	result domain.CalculationResult,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.data) == r.capacity {
		copy(r.data, r.data[1:])
		r.data = r.data[:len(r.data)-1]
	}
	r.data = append(r.data, result)
	return nil
}

// Recent returns up to limit results, newest first.
func (r *CalculationRepositoryMemory) Recent(limit int) []domain.CalculationResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > len(r.data) {
		limit = len(r.data)
	}
	out := make([]domain.CalculationResult, 0, limit)
	for i := len(r.data) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.data[i])
	}
	return out
}
