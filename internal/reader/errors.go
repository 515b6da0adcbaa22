package reader

import (
	"context"
	"net"
	"os/exec"

	"codeberg.org/mutker/vitalmon/internal/errors"
)

const (
	ErrSpawn       = errors.ErrReadSpawn
	ErrNonZeroExit = errors.ErrReadNonZeroExit
	ErrParse       = errors.ErrReadParse
	ErrTimeout     = errors.ErrReadTimeout
	ErrIO          = errors.ErrReadIO
)

// classifyCommandError maps an os/exec failure onto a read error code.
func classifyCommandError(ctx context.Context, name string, err error) error {
	errFactory := errors.New()

	if ctx.Err() != nil {
		return errFactory.Wrap(ErrTimeout, ctx.Err()).WithData(name)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return errFactory.Wrap(ErrNonZeroExit, err).WithData(struct {
			Command  string
			ExitCode int
		}{
			Command:  name,
			ExitCode: exitErr.ExitCode(),
		})
	}

	return errFactory.Wrap(ErrSpawn, err).WithData(name)
}

// classifyDialError maps a dial failure onto a read error code.
func classifyDialError(ctx context.Context, err error) error {
	errFactory := errors.New()

	if ctx.Err() != nil {
		return errFactory.Wrap(ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errFactory.Wrap(ErrTimeout, err)
	}

	return errFactory.Wrap(ErrIO, err)
}
