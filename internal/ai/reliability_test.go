package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/spaceai-agent-scene/internal/infra"
)

func testAIConfig() infra.AIConfig {
	return infra.AIConfig{
		RequestTimeout: 100 * time.Millisecond,
		CBMaxRequests:  1,
		CBInterval:     time.Second,
		CBTimeout:      time.Second,
		RateLimitRPS:   1000,
	}
}

func TestReliabilityWrapper_RetriesOnThrottle(t *testing.T) {
	// Первые две попытки — 429, третья проходит
	calls := 0
	mock := &MockCompleter{
		CompleteFunc: func(context.Context, CompletionRequest) (*CompletionResponse, error) {
			calls++
			if calls < 3 {
				return nil, &ThrottleError{RetryAfter: time.Millisecond, Cause: errors.New("429")}
			}
			return &CompletionResponse{Text: "ok", Model: "test"}, nil
		},
	}

	w := NewReliabilityWrapper(mock, testAIConfig(), nil)
	resp, err := w.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 3, calls)
}

func TestReliabilityWrapper_GivesUpAfterAttempts(t *testing.T) {
	boom := errors.New("provider down")
	mock := &MockCompleter{
		CompleteFunc: func(context.Context, CompletionRequest) (*CompletionResponse, error) {
			return nil, boom
		},
	}

	w := NewReliabilityWrapper(mock, testAIConfig(), nil)
	_, err := w.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	require.Error(t, err)
	// 3 попытки ретрая на один вызов
	assert.Equal(t, 3, mock.Calls)
}

func TestReliabilityWrapper_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	mock := &MockCompleter{
		CompleteFunc: func(context.Context, CompletionRequest) (*CompletionResponse, error) {
			return nil, errors.New("provider down")
		},
	}

	w := NewReliabilityWrapper(mock, testAIConfig(), nil)

	// 6 неудачных вызовов подряд открывают предохранитель
	for i := 0; i < 6; i++ {
		_, err := w.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
		require.Error(t, err)
	}

	callsBefore := mock.Calls
	_, err := w.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	// Открытый CB не пускает трафик до провайдера
	assert.Equal(t, callsBefore, mock.Calls)
}
