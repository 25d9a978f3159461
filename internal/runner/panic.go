package runner

import (
	"runtime/debug"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/testerror"
)

func runCatchPanic(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = testerror.NewPanicError(r, debug.Stack())
		}
	}()

	return f()
}
