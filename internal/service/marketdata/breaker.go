package marketdata

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	"Assemblief/pkg/apperr"
)

// BreakerConfig tunes when a provider breaker opens.
type BreakerConfig struct {
	ConsecutiveFailures uint32        `yaml:"consecutive_failures" default:"3"`
	MinRequests         uint32        `yaml:"min_requests" default:"20"`
	FailureRatio        float64       `yaml:"failure_ratio" default:"0.05"`
	Interval            time.Duration `yaml:"interval" default:"60s"`
	Timeout             time.Duration `yaml:"timeout" default:"60s"`
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.ConsecutiveFailures == 0 {
		c.ConsecutiveFailures = 3
	}
	if c.MinRequests == 0 {
		c.MinRequests = 20
	}
	if c.FailureRatio <= 0 {
		c.FailureRatio = 0.05
	}
	if c.Interval <= 0 {
		c.Interval = 60 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return c
}

// BreakerProvider guards a provider with a circuit breaker. Validation
// errors and caller cancellation do not count as failures.
type BreakerProvider struct {
	next domrepo.MarketProvider
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerProvider(next domrepo.MarketProvider, cfg BreakerConfig) *BreakerProvider {
	cfg = cfg.withDefaults()
	st := gobreaker.Settings{
		Name:     next.Name(),
		Interval: cfg.Interval,
		Timeout:  cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= cfg.ConsecutiveFailures {
				return true
			}
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) > cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || apperr.IsValidation(err) || errors.Is(err, context.Canceled)
		},
	}
	return &BreakerProvider{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

func (b *BreakerProvider) Name() string { return b.next.Name() }

// State reports the breaker state for health output.
func (b *BreakerProvider) State() string { return b.cb.State().String() }

func (b *BreakerProvider) FetchOHLCV(ctx context.Context, symbol string, tf domrepo.Timeframe, limit int) ([]models.Candle, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return b.next.FetchOHLCV(ctx, symbol, tf, limit)
	})
	if err != nil {
		return nil, err
	}
	return out.([]models.Candle), nil
}
