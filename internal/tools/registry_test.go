package tools

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistry_ListStableOrder(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	list := r.List()
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
	for _, tool := range list {
		assert.False(t, tool.Installed)
		assert.Nil(t, tool.InstalledAt)
	}
}

func TestRegistry_InstallLifecycle(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	fixed := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	r.clock = func() time.Time { return fixed }

	tool, err := r.Install("metrics-probe")
	require.NoError(t, err)
	assert.True(t, tool.Installed)
	require.NotNil(t, tool.InstalledAt)
	assert.Equal(t, fixed, *tool.InstalledAt)

	// Повторная установка — ошибка
	_, err = r.Install("metrics-probe")
	require.ErrorIs(t, err, ErrAlreadyInstalled)

	tool, err = r.Uninstall("metrics-probe")
	require.NoError(t, err)
	assert.False(t, tool.Installed)
	assert.Nil(t, tool.InstalledAt)

	_, err = r.Uninstall("metrics-probe")
	require.ErrorIs(t, err, ErrNotInstalled)
}

func TestRegistry_UnknownTool(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	_, err := r.Install("no-such-tool")
	require.ErrorIs(t, err, ErrToolNotFound)
	_, err = r.Uninstall("no-such-tool")
	require.ErrorIs(t, err, ErrToolNotFound)
}
