// Package settings persists the selected mode, product, variant and target in
// an INI file, and lets command-line overrides shadow the stored values.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

const FileName = "Settings.ini"

const (
	SectionMode    = "MODE"
	SectionProduct = "PRODUCT"
	SectionVariant = "VARIANT"
	SectionTarget  = "TARGET"

	OptionValue = "value"
)

var ErrInvalidOverride = errors.New("invalid override")

// Override shadows the value of one section/option.
type Override struct {
	Section string
	Option  string
	Value   string
}

func (o Override) String() string {
	return fmt.Sprintf("%s.%s=%s", o.Section, o.Option, o.Value)
}

// ParseOverride parses "SECTION.option=value". The value may be empty and may
// contain '='.
func ParseOverride(s string) (Override, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return Override{}, fmt.Errorf("%w: '%s' has no '='", ErrInvalidOverride, s)
	}

	section, option, ok := strings.Cut(key, ".")
	if !ok || section == "" || option == "" {
		return Override{}, fmt.Errorf("%w: '%s' is not of the form SECTION.option=value", ErrInvalidOverride, s)
	}

	return Override{Section: section, Option: option, Value: value}, nil
}

func ParseOverrides(list []string) ([]Override, error) {
	out := make([]Override, 0, len(list))
	for _, s := range list {
		o, err := ParseOverride(s)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// Store reads and writes section/option values in an INI file. The file is
// loaded lazily on first access; a missing file reads as empty.
type Store struct {
	path      string
	overrides []Override

	mu   sync.Mutex
	file *ini.File
}

func NewStore(path string, overrides []Override) *Store {
	return &Store{
		path:      path,
		overrides: overrides,
	}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() (*ini.File, error) {
	if s.file != nil {
		return s.file, nil
	}

	f, err := ini.LooseLoad(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load settings '%s'", s.path)
	}

	s.file = f
	return f, nil
}

// Get returns the value for section/option. Overrides win over the file; the
// last matching override wins. An absent value is returned as "".
func (s *Store) Get(section, option string) (string, error) {
	for i := len(s.overrides) - 1; i >= 0; i-- {
		o := s.overrides[i]
		if o.Section == section && o.Option == option {
			return o.Value, nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return "", err
	}

	if !f.Section(section).HasKey(option) {
		return "", nil
	}

	return f.Section(section).Key(option).String(), nil
}

// Set stores section/option in the file. Overrides are never written, so a
// value set while shadowed only shows once the override is gone.
func (s *Store) Set(section, option, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}

	f.Section(section).Key(option).SetValue(value)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create settings directory for '%s'", s.path)
	}

	if err := f.SaveTo(s.path); err != nil {
		return errors.Wrapf(err, "failed to save settings '%s'", s.path)
	}

	log.WithField("file", s.path).Debugf("Set %s.%s=%s", section, option, value)
	return nil
}

// Reload drops the cached file so the next access reads it again.
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = nil
}
