package tui

import "sync"

// AlertBox collects sentinel alerts raised from fetch goroutines until the
// UI loop picks them up
type AlertBox struct {
	mu      sync.Mutex
	pending []string
}

func NewAlertBox() *AlertBox {
	return &AlertBox{}
}

// Alert implements sentinel.Alerter
func (a *AlertBox) Alert(message string) {
	a.mu.Lock()
	a.pending = append(a.pending, message)
	a.mu.Unlock()
}

// Drain returns and clears the pending alerts
func (a *AlertBox) Drain() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := a.pending
	a.pending = nil
	return out
}
