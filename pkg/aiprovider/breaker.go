package aiprovider

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/sony/gobreaker"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
)

// breakerProvider wraps a backend Provider in a gobreaker.CircuitBreaker:
// once the breaker is open, calls fail fast into the same
// degradation path as a timeout, rather than retrying into an already
// struggling backend.
type breakerProvider struct {
	backend Provider
	breaker *gobreaker.CircuitBreaker
}

func newBreakerProvider(backend Provider, cfg config.AIConfig, logger logr.Logger) *breakerProvider {
	settings := gobreaker.Settings{
		Name:        "aiprovider." + cfg.Provider,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("ai provider circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &breakerProvider{backend: backend, breaker: gobreaker.NewCircuitBreaker(settings)}
}

func (p *breakerProvider) Generate(ctx context.Context, req Request) (Response, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.backend.Generate(ctx, req)
	})
	if err != nil {
		return Response{}, err
	}
	return result.(Response), nil
}
