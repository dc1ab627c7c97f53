package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/xela07ax/spaceai-agent-scene/internal/infra"
)

// ReliabilityWrapper оборачивает Completer в цепочку защиты:
// Rate Limiter → Circuit Breaker → Retry с умной задержкой.
// Сбои AI-провайдера не касаются симуляции — они живут целиком здесь.
type ReliabilityWrapper struct {
	next    Completer
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	timeout time.Duration
	metrics *Metrics
}

func NewReliabilityWrapper(next Completer, cfg infra.AIConfig, metrics *Metrics) *ReliabilityWrapper {
	if metrics == nil {
		metrics = NewAIMetrics(nil)
	}

	// Настройка предохранителя
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ai-provider",
		MaxRequests: cfg.CBMaxRequests,
		Interval:    cfg.CBInterval,
		Timeout:     cfg.CBTimeout, // Время, через которое CB попробует "закрыться"
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Если более 5 ошибок подряд — открываемся (блокируем трафик)
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(_ string, _, to gobreaker.State) {
			metrics.observeState(to)
		},
	})

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 5)

	return &ReliabilityWrapper{
		next:    next,
		cb:      cb,
		limiter: limiter,
		timeout: cfg.RequestTimeout,
		metrics: metrics,
	}
}

func (w *ReliabilityWrapper) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	// 1. Rate Limiter
	if err := w.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	var finalResp *CompletionResponse

	// 2. Circuit Breaker
	cbResult, err := w.cb.Execute(func() (interface{}, error) {
		r := retry.New(
			retry.Context(ctx),
			retry.Attempts(3),
			// Умный расчет задержки
			retry.DelayType(func(n uint, err error, config retry.DelayContext) time.Duration {
				// Если провайдер вернул ThrottleError (считали Retry-After заголовок)
				var tErr *ThrottleError
				if errors.As(err, &tErr) {
					return tErr.RetryAfter
				}

				// В остальных случаях (сетевой лаг, 500-ка) — стандартный экспоненциальный бэкофф
				return retry.BackOffDelay(n, err, config)
			}),
		)

		retryErr := r.Do(func() error {
			tCtx, cancel := context.WithTimeout(ctx, w.timeout)
			defer cancel()

			var callErr error
			finalResp, callErr = w.next.Complete(tCtx, req)
			return callErr
		})

		return finalResp, retryErr
	})

	if err != nil {
		var tErr *ThrottleError
		if errors.As(err, &tErr) {
			w.metrics.Requests.WithLabelValues("throttled").Inc()
		} else {
			w.metrics.Requests.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	w.metrics.Requests.WithLabelValues("ok").Inc()
	return cbResult.(*CompletionResponse), nil
}
