package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysmon-tools/sysmon/internal/config"
)

func TestGenerateConfig_WritesLoadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	rootCmd.SetArgs([]string{"generate-config", "--config", path})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 70.0, cfg.Thresholds.CPU.Warning)
}

func TestRunMonitor_InvalidConfigFailsBeforeLoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	bad := "thresholds:\n  cpu:\n    warning: 95\n    critical: 90\n"
	require.NoError(t, os.WriteFile(path, []byte(bad), 0640))

	prev := configFlag
	configFlag = path
	t.Cleanup(func() { configFlag = prev })

	err := runMonitor(true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "thresholds.cpu")
}
