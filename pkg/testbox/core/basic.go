package core

import (
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"
)

var entityNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

type Named interface {
	// Returns the name of the entity, unique among its siblings.
	Name() string
}

type LoggerProvider interface {
	// Logger returns the logger to be used for logging.
	Logger() *logrus.Logger
}

// ValidateEntityName checks that name is usable as one component of a test
// ID. Kind names the entity in the error message.
func ValidateEntityName(name, kind string) error {
	if !entityNameRegex.MatchString(name) {
		return fmt.Errorf("%s name '%s' is invalid, it must match %s", kind, name, entityNameRegex.String())
	}
	return nil
}
