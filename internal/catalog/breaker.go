// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/streamcompare/internal/metrics"
	"github.com/tomtom215/streamcompare/internal/models"
)

// BreakerConfig controls when a BreakerProvider opens.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open
	MaxRequests uint32

	// Interval resets the closed-state counts
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing
	Timeout time.Duration

	// MinRequests is the sample size needed before the ratio is considered
	MinRequests uint32

	// FailureRatio at or above which the breaker opens
	FailureRatio float64
}

// DefaultBreakerConfig opens after a 60% failure rate over at least 10
// requests and probes again after two minutes.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// BreakerProvider wraps a Provider with a circuit breaker so a failing
// source is not hammered on every refresh. While the breaker is open the
// Fetch methods fail fast with gobreaker.ErrOpenState.
type BreakerProvider struct {
	next   Provider
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
	logger zerolog.Logger
}

// NewBreakerProvider wraps next.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBreakerProvider(next Provider, cfg BreakerConfig, logger zerolog.Logger) *BreakerProvider {
	name := "catalog-" + next.Name()
	logger = logger.With().Str("component", "catalog_breaker").Str("breaker", name).Logger()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := failureRatio >= cfg.FailureRatio
			if trip {
				logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info().Str("from", from.String()).Str("to", to.String()).Msg("circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerProvider{next: next, cb: cb, name: name, logger: logger}
}

// Name implements Provider and reports the wrapped source.
func (p *BreakerProvider) Name() string {
	return p.next.Name()
}

// State returns the current breaker state.
func (p *BreakerProvider) State() gobreaker.State {
	return p.cb.State()
}

// FetchServices implements Provider.
func (p *BreakerProvider) FetchServices(ctx context.Context) ([]models.Service, error) {
	return castResult[[]models.Service](p.execute(func() (interface{}, error) {
		return p.next.FetchServices(ctx)
	}))
}

// FetchChannels implements Provider.
func (p *BreakerProvider) FetchChannels(ctx context.Context) ([]models.Channel, error) {
	return castResult[[]models.Channel](p.execute(func() (interface{}, error) {
		return p.next.FetchChannels(ctx)
	}))
}

// FetchServiceChannelMappings implements Provider.
func (p *BreakerProvider) FetchServiceChannelMappings(ctx context.Context) ([]models.ServiceChannel, error) {
	return castResult[[]models.ServiceChannel](p.execute(func() (interface{}, error) {
		return p.next.FetchServiceChannelMappings(ctx)
	}))
}

func (p *BreakerProvider) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := p.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(p.name, "rejected").Inc()
			p.logger.Debug().Err(err).Msg("request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(p.name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(p.name).
				Set(float64(p.cb.Counts().ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(p.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(p.name).Set(0)
	return result, nil
}

// castResult type-asserts a breaker result.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
