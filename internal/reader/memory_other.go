//go:build !darwin

package reader

import (
	"context"

	"codeberg.org/mutker/vitalmon/internal/errors"
	"codeberg.org/mutker/vitalmon/internal/metrics"
	"github.com/shirou/gopsutil/v4/mem"
)

// readMemoryPressure uses the share of memory in use where the kernel has no
// pressure tool.
func readMemoryPressure(ctx context.Context) (metrics.Percent, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return 0, errors.New().Wrap(ErrTimeout, err)
		}
		return 0, errors.New().Wrap(ErrIO, err)
	}

	return metrics.Percent(vm.UsedPercent).Clamp(), nil
}
