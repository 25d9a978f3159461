package reporter

import (
	"github.com/fatih/color"
)

type SummaryStatus int

const (
	StatusOk SummaryStatus = iota
	StatusFailed
	StatusError
)

func (s SummaryStatus) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

func (s SummaryStatus) StringColor() string {
	switch s {
	case StatusOk:
		return color.GreenString(s.String())
	case StatusFailed:
		return color.RedString(s.String())
	case StatusError:
		return color.New(color.FgRed, color.Bold).Sprint(s.String())
	default:
		return s.String()
	}
}

func (s SummaryStatus) IsBad() bool {
	return s == StatusFailed || s == StatusError
}
