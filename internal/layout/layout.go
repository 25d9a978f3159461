// Package layout maps products, variants and targets to directories under a
// harness root.
//
//	<root>/<input>/<product>/main.settings.ini
//	<root>/<input>/<product>/<variant>/<variant>.settings.ini
//	<root>/<output>/Settings.ini
//	<root>/<output>/<product>/<variant>/<target>/Journal.jrl
//	<root>/<output>/<product>/<variant>/<target>/log/<testId>.log
package layout

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/descriptor"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/settings"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultInputDir  = "SETTINGS"
	DefaultOutputDir = "LOCAL"

	LogDir = "log"

	productMarker = "main.settings.ini"
)

var ErrRootUnreachable = errors.New("root directory is unreachable")

type Layout struct {
	root      string
	inputDir  string
	outputDir string
}

// New validates that root is a readable directory. Empty input and output
// directory names fall back to the defaults.
func New(root, inputDir, outputDir string) (Layout, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, fmt.Errorf("%w: '%s': %v", ErrRootUnreachable, root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Layout{}, fmt.Errorf("%w: '%s': %v", ErrRootUnreachable, abs, err)
	}
	if !info.IsDir() {
		return Layout{}, fmt.Errorf("%w: '%s' is not a directory", ErrRootUnreachable, abs)
	}

	f, err := os.Open(abs)
	if err != nil {
		return Layout{}, fmt.Errorf("%w: '%s': %v", ErrRootUnreachable, abs, err)
	}
	f.Close()

	if inputDir == "" {
		inputDir = DefaultInputDir
	}
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}

	return Layout{root: abs, inputDir: inputDir, outputDir: outputDir}, nil
}

func (l Layout) Root() string {
	return l.root
}

func (l Layout) InputRoot() string {
	return filepath.Join(l.root, l.inputDir)
}

func (l Layout) OutputRoot() string {
	return filepath.Join(l.root, l.outputDir)
}

func (l Layout) SettingsPath() string {
	return filepath.Join(l.OutputRoot(), settings.FileName)
}

// VersionDir is the output directory of one product/variant/target. Variants
// may be nested paths such as "Release/Dongle".
func (l Layout) VersionDir(product, variant, target string) string {
	return filepath.Join(l.OutputRoot(), product, filepath.FromSlash(variant), target)
}

func (l Layout) JournalPath(product, variant, target, fileName string) string {
	return filepath.Join(l.VersionDir(product, variant, target), fileName)
}

func (l Layout) LogDir(product, variant, target string) string {
	return filepath.Join(l.VersionDir(product, variant, target), LogDir)
}

func (l Layout) LogPath(testID, product, variant, target string) string {
	return filepath.Join(l.LogDir(product, variant, target), testID+".log")
}

// Products lists the directories of the input root carrying a product marker
// file. A missing input root yields an empty list.
func (l Layout) Products() (*descriptor.VersionDescriptor, error) {
	root := descriptor.NewVersionRoot()

	entries, err := readDir(l.InputRoot())
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dir := filepath.Join(l.InputRoot(), entry.Name())
		if readable(filepath.Join(dir, productMarker)) || readable(filepath.Join(dir, entry.Name()+".main.xml")) {
			root.Add(entry.Name())
		}
	}

	return root, nil
}

// Variants returns the variant hierarchy of a product, found recursively.
func (l Layout) Variants(product string) (*descriptor.VersionDescriptor, error) {
	root := descriptor.NewVersionRoot()
	if product == "" {
		return root, nil
	}

	if err := collectVariants(root, filepath.Join(l.InputRoot(), product)); err != nil {
		return nil, err
	}

	return root, nil
}

func collectVariants(parent *descriptor.VersionDescriptor, dir string) error {
	entries, err := readDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()
		childDir := filepath.Join(dir, name)
		if !readable(filepath.Join(childDir, name+".settings.ini")) && !readable(filepath.Join(childDir, name+".xml")) {
			continue
		}

		if err := collectVariants(parent.Add(name), childDir); err != nil {
			return err
		}
	}

	return nil
}

func readDir(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		log.WithField("dir", dir).Debug("Directory does not exist, nothing to discover")
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list '%s'", dir)
	}
	return entries, nil
}

func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
