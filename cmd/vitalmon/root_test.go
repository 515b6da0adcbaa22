package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/vitalmon/internal/errors"
	"codeberg.org/mutker/vitalmon/internal/pid"
	"codeberg.org/mutker/vitalmon/internal/prefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("VITALMON_CONFIG", "")
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "vitalmon "+version)
}

func TestPrefsCommands(t *testing.T) {
	for _, backend := range []string{"json", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "prefs."+backend)
			flags := []string{"--prefs-backend", backend, "--prefs-path", path}

			out, err := execute(t, "", append([]string{"prefs", "show"}, flags...)...)
			require.NoError(t, err)
			cfg, err := prefs.Unmarshal([]byte(out))
			require.NoError(t, err)
			assert.Equal(t, prefs.Default(), cfg)

			_, err = execute(t, "", append([]string{"prefs", "set", "show_cpu_nw", "mode_rotation"}, flags...)...)
			require.NoError(t, err)

			out, err = execute(t, "", append([]string{"prefs", "show"}, flags...)...)
			require.NoError(t, err)
			cfg, err = prefs.Unmarshal([]byte(out))
			require.NoError(t, err)
			assert.Equal(t, prefs.DisplayConfig{
				ShowCPU: true,
				ShowNW:  true,
				Mode:    prefs.ModeRotation,
				IsAlert: true,
			}, cfg)

			out, err = execute(t, "", append([]string{"prefs", "reset"}, flags...)...)
			require.NoError(t, err)
			cfg, err = prefs.Unmarshal([]byte(out))
			require.NoError(t, err)
			assert.Equal(t, prefs.Default(), cfg)
		})
	}
}

func TestPrefsSetRejectsUnknownEvent(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, "", "prefs", "set", "show_gpu", "--prefs-path", filepath.Join(dir, "p.json"))
	require.Error(t, err)
}

func TestStartupErrorsAreCoded(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, "", "version", "--sink", "tray")
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidConfig, asCoded(err).Code())

	// The parent of the test binary stands in for a running monitor.
	require.NoError(t, os.WriteFile(pid.Path(dir), []byte(strconv.Itoa(os.Getppid())), 0o600))
	_, err = execute(t, "exit\n", "--pid-dir", dir, "--prefs-path", filepath.Join(dir, "p.json"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrAlreadyRunning, asCoded(err).Code())

	_, err = execute(t, "", "prefs", "show", "--bogus")
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidArgument, asCoded(err).Code())
}

func TestConfigFlag(t *testing.T) {
	dir := isolate(t)
	prefsPath := filepath.Join(dir, "from-file.json")
	configPath := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`prefs_path = "`+prefsPath+`"`), 0o600))

	_, err := execute(t, "", "prefs", "set", "toggle_alert", "--config", configPath)
	require.NoError(t, err)

	_, err = os.Stat(prefsPath)
	assert.NoError(t, err, "prefs_path from the --config file was used")
}

func TestMonitorRunsUntilExitEvent(t *testing.T) {
	dir := isolate(t)
	prefsPath := filepath.Join(dir, "prefs.json")
	statusPath := filepath.Join(dir, "status")

	_, err := execute(t, "toggle_alert\nshow_mem\nexit\n",
		"--prefs-path", prefsPath,
		"--sink", "file",
		"--sink-path", statusPath,
		"--pid-dir", dir,
	)
	require.NoError(t, err)

	status, err := os.ReadFile(statusPath)
	require.NoError(t, err)
	assert.Contains(t, string(status), "Mem")

	data, err := os.ReadFile(prefsPath)
	require.NoError(t, err)
	cfg, err := prefs.Unmarshal(data)
	require.NoError(t, err)
	assert.False(t, cfg.IsAlert)
	assert.False(t, cfg.ShowCPU)
	assert.True(t, cfg.ShowMem)

	_, err = os.Stat(pid.Path(dir))
	assert.True(t, os.IsNotExist(err), "PID file is removed on exit")
}
