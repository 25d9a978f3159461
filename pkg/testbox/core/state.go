package core

import (
	"strings"

	"github.com/fatih/color"
)

// State is the execution state of a test, suite or run. Values are ordered
// so that a larger value is worse; aggregation keeps the maximum.
type State int

const (
	StateUnknown State = 0
	StateSuccess State = 10
	StateFailure State = 20
	StateError   State = 30
	StateMissing State = 40
	StateRunning State = 100
)

// Journal tokens for terminal states.
const (
	TokenSuccess = "success"
	TokenFailure = "failure"
	TokenError   = "error"
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "UNKNOWN"
	case StateSuccess:
		return "SUCCESS"
	case StateFailure:
		return "FAILURE"
	case StateError:
		return "ERROR"
	case StateMissing:
		return "MISSING"
	case StateRunning:
		return "RUNNING"
	default:
		return "INVALID"
	}
}

func (s State) ColorString() string {
	switch s {
	case StateSuccess:
		return color.GreenString(s.String())
	case StateFailure:
		return color.RedString(s.String())
	case StateError:
		return color.New(color.FgRed, color.Bold).Sprint(s.String())
	case StateMissing:
		return color.YellowString(s.String())
	case StateRunning:
		return color.CyanString(s.String())
	default:
		return s.String()
	}
}

func (s State) IsValid() bool {
	switch s {
	case StateUnknown, StateSuccess, StateFailure, StateError, StateMissing, StateRunning:
		return true
	default:
		return false
	}
}

// IsBad returns true if the state is either Failure or Error.
func (s State) IsBad() bool {
	return s == StateFailure || s == StateError
}

// Token returns the journal token of a terminal state, or an empty string
// for states that are never journaled.
func (s State) Token() string {
	switch s {
	case StateSuccess:
		return TokenSuccess
	case StateFailure:
		return TokenFailure
	case StateError:
		return TokenError
	default:
		return ""
	}
}

// ParseState maps a journal token to a state. Anything that is not a
// terminal outcome maps to StateUnknown.
func ParseState(token string) State {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case TokenSuccess:
		return StateSuccess
	case TokenFailure:
		return StateFailure
	case TokenError:
		return StateError
	default:
		return StateUnknown
	}
}
