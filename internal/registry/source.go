package registry

import (
	"reflect"
	"runtime"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

// Source returns the file and line where the body of a test case is
// defined. ok is false for suites and for bodies the runtime cannot locate.
func Source(t core.Test) (file string, line int, ok bool) {
	exec, isExec := t.(core.Executable)
	if !isExec || exec.Function() == nil {
		return "", 0, false
	}

	fn := runtime.FuncForPC(reflect.ValueOf(exec.Function()).Pointer())
	if fn == nil {
		return "", 0, false
	}

	file, line = fn.FileLine(fn.Entry())
	return file, line, true
}
