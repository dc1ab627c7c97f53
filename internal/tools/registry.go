package tools

import (
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
)

var (
	// ErrToolNotFound — операция над инструментом, которого нет в каталоге.
	ErrToolNotFound = errors.New("tools: tool not found")
	// ErrAlreadyInstalled — повторная установка уже активного инструмента.
	ErrAlreadyInstalled = errors.New("tools: tool already installed")
	// ErrNotInstalled — удаление инструмента, который не установлен.
	ErrNotInstalled = errors.New("tools: tool not installed")
)

// Registry — каталог инструментов консоли. Состояние живет в памяти
// процесса: установка мгновенна, флаг Installed переключается без
// сайд-эффектов на симуляцию.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]domain.Tool
	clock  func() time.Time
	logger *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	r := &Registry{
		tools:  make(map[string]domain.Tool),
		clock:  time.Now,
		logger: logger.Named("tool-registry"),
	}
	for _, t := range defaultCatalogue {
		r.tools[t.ID] = t
	}
	return r
}

// List возвращает каталог в стабильном порядке (по ID).
func (r *Registry) List() []domain.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Install помечает инструмент установленным и фиксирует время установки.
func (r *Registry) Install(id string) (domain.Tool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tools[id]
	if !ok {
		return domain.Tool{}, ErrToolNotFound
	}
	if t.Installed {
		return domain.Tool{}, ErrAlreadyInstalled
	}

	now := r.clock()
	t.Installed = true
	t.InstalledAt = &now
	r.tools[id] = t

	r.logger.Info("tool installed", zap.String("tool_id", id))
	return t, nil
}

// Uninstall снимает флаг установки.
func (r *Registry) Uninstall(id string) (domain.Tool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tools[id]
	if !ok {
		return domain.Tool{}, ErrToolNotFound
	}
	if !t.Installed {
		return domain.Tool{}, ErrNotInstalled
	}

	t.Installed = false
	t.InstalledAt = nil
	r.tools[id] = t

	r.logger.Info("tool uninstalled", zap.String("tool_id", id))
	return t, nil
}

// defaultCatalogue — статический набор инструментов дашборда.
var defaultCatalogue = []domain.Tool{
	{ID: "metrics-probe", Name: "Metrics Probe", Category: "observability",
		Description: "Streams per-agent load and energy series to the console charts."},
	{ID: "trace-inspector", Name: "Trace Inspector", Category: "observability",
		Description: "Inspects task transitions of a selected agent tick by tick."},
	{ID: "zone-planner", Name: "Zone Planner", Category: "scene",
		Description: "Previews agent placement before committing a zone change."},
	{ID: "interaction-lens", Name: "Interaction Lens", Category: "scene",
		Description: "Highlights active interaction pairs on the scene view."},
	{ID: "roster-sync", Name: "Roster Sync", Category: "data",
		Description: "Re-imports the agent roster from the configured source."},
	{ID: "summary-composer", Name: "Summary Composer", Category: "ai",
		Description: "Drafts narrative zone summaries with the configured AI provider."},
}
