package ai

import (
	"context"
	"fmt"
)

// MockCompleter — подменный провайдер для тестов и оффлайн-режима
// (ai.use_mock). CompleteFunc позволяет тестам задать точный ответ.
type MockCompleter struct {
	CompleteFunc func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Calls        int
}

func (m *MockCompleter) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.Calls++
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}

	// Консервированный ответ, чтобы дашборд жил без внешнего API
	return &CompletionResponse{
		Text:  fmt.Sprintf("[offline] %.80s", req.Prompt),
		Model: "mock",
	}, nil
}
