package descriptor

import "github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"

type Type int

const (
	TypeUnknown Type = iota
	TypeTest
	TypeSuite
	TypeRun
)

func (t Type) String() string {
	switch t {
	case TypeTest:
		return "TEST"
	case TypeSuite:
		return "SUITE"
	case TypeRun:
		return "RUN"
	default:
		return "UNKNOWN"
	}
}

// TypeOf returns the descriptor type matching a loaded test.
func TypeOf(t core.Test) Type {
	switch t.Kind() {
	case core.TestKindCase:
		return TypeTest
	case core.TestKindSuite:
		return TypeSuite
	default:
		return TypeUnknown
	}
}

// Action tells subscribers what changed on a descriptor.
type Action int

const (
	ActionModifyState Action = 1 << iota
	ActionModifyChildren
)

func (a Action) Has(other Action) bool {
	return a&other != 0
}
