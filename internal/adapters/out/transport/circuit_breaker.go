package transport

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/sony/gobreaker"
)

// CircuitBreakerProvider wraps a transport provider with a circuit
// breaker. A gateway that keeps failing stops receiving traffic for the
// open interval; rejected sends surface as transport failures so the
// dispatcher reschedules them with its normal backoff.
type CircuitBreakerProvider struct {
	inner   ports.TransportProvider
	breaker *gobreaker.CircuitBreaker
}

// NewCircuitBreakerProvider wraps the given provider. The breaker trips
// after five consecutive failures and probes again after thirty seconds.
func NewCircuitBreakerProvider(inner ports.TransportProvider, logger *slog.Logger) *CircuitBreakerProvider {
	settings := gobreaker.Settings{
		Name:    inner.Channel().String(),
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("transport circuit breaker state changed",
				"channel", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &CircuitBreakerProvider{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Channel reports the wrapped provider's channel.
func (p *CircuitBreakerProvider) Channel() notification.Channel {
	return p.inner.Channel()
}

// Send delivers through the wrapped provider unless the circuit is open.
func (p *CircuitBreakerProvider) Send(ctx context.Context, recipient ports.CustomerContact, task *notification.Task) (string, error) {
	result, err := p.breaker.Execute(func() (any, error) {
		return p.inner.Send(ctx, recipient, task)
	})
	if err != nil {
		var failure *errs.TransportFailureError
		if errors.As(err, &failure) {
			return "", err
		}
		return "", errs.NewTransportFailureError(p.Channel().String(), err)
	}

	return result.(string), nil
}
