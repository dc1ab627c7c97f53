package ai

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
	"github.com/xela07ax/spaceai-agent-scene/internal/sim"
)

// ErrAgentNotFound — чат запрошен для агента, которого нет в сцене.
var ErrAgentNotFound = errors.New("ai: agent not found in scene")

// ChatService генерирует реплики агентов от их лица. Полностью отвязан
// от тик-цикла: персона строится по последнему снапшоту, ответ ждет
// только вызывающий HTTP-запрос.
type ChatService struct {
	completer Completer
	snapshots sim.SnapshotProvider
	logger    *zap.Logger
}

func NewChatService(completer Completer, snapshots sim.SnapshotProvider, logger *zap.Logger) *ChatService {
	return &ChatService{
		completer: completer,
		snapshots: snapshots,
		logger:    logger.Named("agent-chat"),
	}
}

// Reply возвращает ответ агента на сообщение оператора.
func (s *ChatService) Reply(ctx context.Context, agentID, message string) (string, error) {
	agent, ok := s.findAgent(agentID)
	if !ok {
		return "", ErrAgentNotFound
	}

	resp, err := s.completer.Complete(ctx, CompletionRequest{
		System: fmt.Sprintf(
			"You are %s, a %s-type AI agent. Role: %s. Current status: %s, task: %s. Stay in character, answer briefly.",
			agent.Name, agent.Type, agent.Role, agent.Status, agent.CurrentTask),
		Prompt:    message,
		MaxTokens: 300,
	})
	if err != nil {
		return "", fmt.Errorf("agent chat failed: %w", err)
	}

	s.logger.Debug("chat reply generated",
		zap.String("agent_id", agentID),
		zap.String("model", resp.Model))
	return resp.Text, nil
}

func (s *ChatService) findAgent(agentID string) (domain.PlacedAgent, bool) {
	snap := s.snapshots.Latest()
	if snap == nil {
		return domain.PlacedAgent{}, false
	}
	for _, a := range snap.Agents {
		if a.ID == agentID {
			return a, true
		}
	}
	return domain.PlacedAgent{}, false
}
