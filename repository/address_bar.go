package repository

import "sync"

// AddressBar is an in-memory history that keeps only the current entry,
// standing in for a browser address bar.
type AddressBar struct {
	mu      sync.RWMutex
	current string
	writes  int
}

func NewAddressBar(initial string) *AddressBar {
	return &AddressBar{current: initial}
}

// ReplaceState overwrites the current entry.
func (a *AddressBar) ReplaceState(url string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = url
	a.writes++
	return nil
}

func (a *AddressBar) Current() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// Writes counts ReplaceState calls.
func (a *AddressBar) Writes() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.writes
}
