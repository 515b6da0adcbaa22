//go:build darwin

package reader

import (
	"context"
	"os/exec"

	"codeberg.org/mutker/vitalmon/internal/metrics"
)

const memoryPressureCmd = "memory_pressure"

func readMemoryPressure(ctx context.Context) (metrics.Percent, error) {
	out, err := exec.CommandContext(ctx, memoryPressureCmd, "-Q").Output()
	if err != nil {
		return 0, classifyCommandError(ctx, memoryPressureCmd, err)
	}

	return parseFreePercentage(string(out))
}
