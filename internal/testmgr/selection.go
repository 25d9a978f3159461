package testmgr

import (
	"slices"

	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/config"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/descriptor"
	"github.com/PonnagantiHemanth/testing-tool-sub012/internal/settings"
)

// storeFor returns the settings store honouring the overrides of args.
func (m *LocalTestManager) storeFor(args config.Args) *settings.Store {
	if slices.Equal(args.Overrides, m.args.Overrides) {
		return m.settings
	}
	return settings.NewStore(m.layout.SettingsPath(), args.ParsedOverrides())
}

// resolve fills the empty fields of v with the selected values.
func (m *LocalTestManager) resolve(store *settings.Store, v Version) (Version, error) {
	fill := func(field *string, section string) error {
		if *field != "" {
			return nil
		}
		value, err := store.Get(section, settings.OptionValue)
		if err != nil {
			return err
		}
		*field = value
		return nil
	}

	if err := fill(&v.Product, settings.SectionProduct); err != nil {
		return Version{}, err
	}
	if err := fill(&v.Variant, settings.SectionVariant); err != nil {
		return Version{}, err
	}
	if err := fill(&v.Target, settings.SectionTarget); err != nil {
		return Version{}, err
	}
	return v, nil
}

func (m *LocalTestManager) GetAvailableModes() ([]string, error) {
	return []string{ModeRelease, ModeWorking}, nil
}

func (m *LocalTestManager) GetAvailableProducts() (*descriptor.VersionDescriptor, error) {
	return m.layout.Products()
}

func (m *LocalTestManager) GetAvailableVariants(product string) (*descriptor.VersionDescriptor, error) {
	if product == "" {
		var err error
		if product, err = m.GetSelectedProduct(); err != nil {
			return nil, err
		}
	}
	return m.layout.Variants(product)
}

func (m *LocalTestManager) selected(section string) (string, error) {
	return m.settings.Get(section, settings.OptionValue)
}

func (m *LocalTestManager) setSelected(section, value string) error {
	return m.settings.Set(section, settings.OptionValue, value)
}

func (m *LocalTestManager) GetSelectedMode() (string, error) {
	return m.selected(settings.SectionMode)
}

func (m *LocalTestManager) SetSelectedMode(mode string) error {
	return m.setSelected(settings.SectionMode, mode)
}

func (m *LocalTestManager) GetSelectedProduct() (string, error) {
	return m.selected(settings.SectionProduct)
}

func (m *LocalTestManager) SetSelectedProduct(product string) error {
	return m.setSelected(settings.SectionProduct, product)
}

func (m *LocalTestManager) GetSelectedVariant() (string, error) {
	return m.selected(settings.SectionVariant)
}

func (m *LocalTestManager) SetSelectedVariant(variant string) error {
	return m.setSelected(settings.SectionVariant, variant)
}

func (m *LocalTestManager) GetSelectedTarget() (string, error) {
	return m.selected(settings.SectionTarget)
}

func (m *LocalTestManager) SetSelectedTarget(target string) error {
	return m.setSelected(settings.SectionTarget, target)
}

// SetSelectedConfig stores the non-empty fields of v and mode.
func (m *LocalTestManager) SetSelectedConfig(v Version, mode string) error {
	for _, kv := range []struct{ section, value string }{
		{settings.SectionProduct, v.Product},
		{settings.SectionVariant, v.Variant},
		{settings.SectionTarget, v.Target},
		{settings.SectionMode, mode},
	} {
		if kv.value == "" {
			continue
		}
		if err := m.setSelected(kv.section, kv.value); err != nil {
			return err
		}
	}
	return nil
}
