package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ── Circuit Breaker ───────────────────────────────────────────────────────────
// Closed → Open → Half-Open breaker around an unreliable dependency (the SMTP
// relay). While open, callers fail fast and queued work is retried later.
//
// States:
//   - Closed:    normal operation, requests pass through
//   - Open:      all requests fail immediately (fast-fail)
//   - Half-Open: probe requests allowed through to test recovery

// CBState represents the current circuit breaker state.
type CBState int

const (
	CBClosed   CBState = iota // normal — requests flow
	CBOpen                    // tripped — fast-fail all requests
	CBHalfOpen                // probing
)

// String returns a human-readable state name (for health endpoints / logs).
func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when Execute is called while the CB is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig holds tunable parameters.
type CircuitBreakerConfig struct {
	FailureThreshold int           // consecutive failures to trip open (default: 5)
	SuccessThreshold int           // consecutive successes in half-open to close (default: 2)
	OpenTimeout      time.Duration // how long to stay open before probing (default: 60s)
}

// DefaultCBConfig returns the defaults used for the mailer.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      60 * time.Second,
	}
}

// CircuitBreaker is safe for concurrent use. Half-open lets a single probe
// through at a time; concurrent callers fail fast until it returns.
type CircuitBreaker struct {
	nombre    string
	cfg       CircuitBreakerConfig
	mu        sync.Mutex
	state     CBState
	fallos    int
	exitos    int
	abiertoEn time.Time
	sondeando bool
}

// NewCircuitBreaker creates a CB in Closed state. nombre tags its log lines.
func NewCircuitBreaker(nombre string, cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{nombre: nombre, cfg: cfg, state: CBClosed}
}

// State returns the current CB state (safe for concurrent reads).
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.vencerApertura(time.Now())
	return cb.state
}

// Snapshot is what /health reports about a breaker.
type Snapshot struct {
	Estado         string `json:"estado"`
	FallosSeguidos int    `json:"fallos_seguidos"`
	ReintentaEn    string `json:"reintenta_en,omitempty"` // RFC 3339, only while open
}

func (cb *CircuitBreaker) Snapshot() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.vencerApertura(time.Now())
	s := Snapshot{Estado: cb.state.String(), FallosSeguidos: cb.fallos}
	if cb.state == CBOpen {
		s.ReintentaEn = cb.abiertoEn.Add(cb.cfg.OpenTimeout).UTC().Format(time.RFC3339)
	}
	return s
}

// Execute runs fn through the circuit breaker.
// Returns ErrCircuitOpen without calling fn while the CB is open or a
// half-open probe is already in flight.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.permitir() {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.sondeando = false
	if err != nil {
		cb.onFailure()
		return err
	}
	cb.onSuccess()
	return nil
}

func (cb *CircuitBreaker) permitir() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.vencerApertura(time.Now())
	switch cb.state {
	case CBOpen:
		return false
	case CBHalfOpen:
		if cb.sondeando {
			return false
		}
		cb.sondeando = true
	}
	return true
}

// vencerApertura moves open → half-open once the timeout elapsed (under lock).
func (cb *CircuitBreaker) vencerApertura(now time.Time) {
	if cb.state == CBOpen && now.Sub(cb.abiertoEn) >= cb.cfg.OpenTimeout {
		cb.transition(CBHalfOpen)
		cb.exitos = 0
	}
}

// onFailure records a failure (must be called under lock).
func (cb *CircuitBreaker) onFailure() {
	cb.fallos++
	switch cb.state {
	case CBClosed:
		if cb.fallos >= cb.cfg.FailureThreshold {
			cb.abrir()
		}
	case CBHalfOpen:
		// probe failed
		cb.abrir()
	}
}

// onSuccess records a success (must be called under lock).
func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case CBClosed:
		cb.fallos = 0
	case CBHalfOpen:
		cb.exitos++
		if cb.exitos >= cb.cfg.SuccessThreshold {
			cb.transition(CBClosed)
			cb.fallos = 0
			cb.exitos = 0
		}
	}
}

func (cb *CircuitBreaker) abrir() {
	cb.transition(CBOpen)
	cb.abiertoEn = time.Now()
	cb.exitos = 0
}

func (cb *CircuitBreaker) transition(to CBState) {
	if cb.state == to {
		return
	}
	log.Warn().Str("breaker", cb.nombre).Str("from", cb.state.String()).Str("to", to.String()).
		Int("fallos", cb.fallos).Msg("circuit breaker state change")
	cb.state = to
}
