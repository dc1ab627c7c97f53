package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
	"github.com/xela07ax/spaceai-agent-scene/internal/sim"
)

type staticSnapshots struct {
	snap *domain.Snapshot
}

func (s staticSnapshots) Latest() *domain.Snapshot { return s.snap }

func testScene() (staticSnapshots, *sim.ZoneDirectory) {
	zones := sim.NewZoneDirectory([]domain.Zone{
		{ID: "ops", Name: "Operations", Anchor: domain.Vector{X: 5}},
	})
	snap := &domain.Snapshot{
		Seq: 1,
		Agents: []domain.PlacedAgent{
			{Agent: domain.Agent{ID: "a1", Name: "Atlas", Type: domain.TypeAnalyst,
				Status: domain.StatusActive, Energy: 77, CurrentTask: "Analyzing metrics", ZoneID: "ops"}},
		},
	}
	return staticSnapshots{snap: snap}, zones
}

func TestSummaryService_FetchOncePerZone(t *testing.T) {
	snaps, zones := testScene()
	mock := &MockCompleter{
		CompleteFunc: func(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
			assert.Contains(t, req.Prompt, "ops")
			assert.Contains(t, req.Prompt, "Atlas")
			return &CompletionResponse{Text: "Zone is busy.", Model: "test"}, nil
		},
	}
	svc := NewSummaryService(mock, NewMemorySummaryCache(), zones, snaps, zap.NewNop())

	for i := 0; i < 3; i++ {
		text, err := svc.ZoneSummary(context.Background(), "sess-1", "ops")
		require.NoError(t, err)
		assert.Equal(t, "Zone is busy.", text)
	}

	// Лениво и один раз на зону за сессию
	assert.Equal(t, 1, mock.Calls)
}

func TestSummaryService_SessionsIsolated(t *testing.T) {
	snaps, zones := testScene()
	mock := &MockCompleter{}
	svc := NewSummaryService(mock, NewMemorySummaryCache(), zones, snaps, zap.NewNop())

	_, err := svc.ZoneSummary(context.Background(), "sess-1", "ops")
	require.NoError(t, err)
	_, err = svc.ZoneSummary(context.Background(), "sess-2", "ops")
	require.NoError(t, err)

	// Кэш ключуется сессией: другая сессия — новый запрос
	assert.Equal(t, 2, mock.Calls)
}

func TestSummaryService_ProviderFailureNotCached(t *testing.T) {
	snaps, zones := testScene()
	boom := errors.New("provider down")
	mock := &MockCompleter{
		CompleteFunc: func(context.Context, CompletionRequest) (*CompletionResponse, error) {
			return nil, boom
		},
	}
	svc := NewSummaryService(mock, NewMemorySummaryCache(), zones, snaps, zap.NewNop())

	_, err := svc.ZoneSummary(context.Background(), "sess-1", "ops")
	require.ErrorIs(t, err, boom)

	// Ошибка не закэширована: следующий запрос снова идет к провайдеру
	mock.CompleteFunc = nil
	_, err = svc.ZoneSummary(context.Background(), "sess-1", "ops")
	require.NoError(t, err)
	assert.Equal(t, 2, mock.Calls)
}
