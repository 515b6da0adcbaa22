package ui

import (
	"bufio"
	"context"
	"io"
	"strings"

	"codeberg.org/mutker/vitalmon/internal/errors"
	"codeberg.org/mutker/vitalmon/internal/logger"
	"codeberg.org/mutker/vitalmon/internal/prefs"
)

// Handler receives parsed UI events.
type Handler interface {
	Handle(e prefs.Event) prefs.DisplayConfig
}

// ReadEvents feeds newline-delimited event names from r to h until r is
// exhausted or ctx is cancelled. Blank lines and lines starting with '#' are
// skipped; unknown names are logged and ignored.
func ReadEvents(ctx context.Context, r io.Reader, h Handler) error {
	log := logger.For("ui")
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return errors.New().Wrap(errors.ErrInternal, err)
					}
				default:
				}
				return nil
			}

			name := strings.TrimSpace(line)
			if name == "" || strings.HasPrefix(name, "#") {
				continue
			}

			// A line buffered before cancellation must not reach h.
			if ctx.Err() != nil {
				return nil
			}

			e, err := prefs.ParseEvent(name)
			if err != nil {
				log.Warn().Str("event", name).Msg("Ignoring unknown event")
				continue
			}
			h.Handle(e)
		}
	}
}
