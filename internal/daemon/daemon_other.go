//go:build !linux

package daemon

import (
	"context"
	"errors"
	"runtime"
)

// RunX is only available on Linux.
func RunX(ctx context.Context, opts Options, display string) error {
	return errors.New("tagtile daemon is not supported on " + runtime.GOOS)
}
