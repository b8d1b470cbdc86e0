// Copyright 2025 Hirelink
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

const defaultQueryTimeout = 2 * time.Second

type options struct {
	timeout time.Duration
	logger  *slog.Logger
	breaker *gobreaker.Settings
}

// Option configures a search service.
type Option func(*options)

// WithTimeout sets the per-query time budget. Queries past it return
// index.ErrQueryTimeout instead of degrading silently.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger used for degradation and breaker events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBreakerSettings overrides the default circuit breaker settings.
func WithBreakerSettings(st gobreaker.Settings) Option {
	return func(o *options) {
		o.breaker = &st
	}
}

func newOptions(opts ...Option) *options {
	o := &options{
		timeout: defaultQueryTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// newBreaker builds the circuit breaker guarding one index engine.
// A run of index failures trips it so a broken index sheds load fast
// instead of timing every request out.
func newBreaker(name string, o *options) *gobreaker.CircuitBreaker {
	if o.breaker != nil {
		return gobreaker.NewCircuitBreaker(*o.breaker)
	}

	logger := o.logger
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: 30 * time.Second,
		Timeout:  10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("search breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
}
