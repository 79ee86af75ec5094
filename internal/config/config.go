package config

import (
	"versiongen/internal/naming"
	"versiongen/internal/plan"
)

// FileName is the configuration file looked up in each package directory.
const FileName = "versiongen.yaml"

// DefaultOutput is the name of the generated file.
const DefaultOutput = "versioned_gen.go"

// File is the versiongen.yaml document.
type File struct {
	// Output is the generated file name, relative to the package directory.
	Output   string `yaml:"output,omitempty" validate:"omitempty,endswith=.go,excludesall=/"`
	Settings `yaml:",inline"`
	// Types version declarations without a directive in their source.
	Types []TypeEntry `yaml:"types,omitempty" validate:"dive"`
}

// Settings is one layer of transformation options.
type Settings struct {
	Layout           string   `yaml:"layout,omitempty" validate:"omitempty,oneof=flatten splice"`
	Naming           string   `yaml:"naming,omitempty" validate:"omitempty,oneof=suffix underscore"`
	Codecs           []string `yaml:"codecs,omitempty" validate:"omitempty,dive,oneof=json yaml cbor"`
	AssertInterfaces bool     `yaml:"assertInterfaces,omitempty"`
}

// TypeEntry versions one declaration by name.
type TypeEntry struct {
	Name     string `yaml:"name" validate:"required"`
	Version  *int   `yaml:"version" validate:"required"`
	Settings `yaml:",inline"`
}

// Default returns the configuration used when no file exists.
func Default() *File {
	return &File{
		Output:   DefaultOutput,
		Settings: DefaultSettings(),
	}
}

// DefaultSettings returns the built-in option layer.
func DefaultSettings() Settings {
	defaults := plan.DefaultOptions()

	codecs := make([]string, 0, len(defaults.Codecs))
	for _, c := range defaults.Codecs {
		codecs = append(codecs, c.String())
	}

	return Settings{
		Layout: defaults.Layout.String(),
		Naming: defaults.Naming.String(),
		Codecs: codecs,
	}
}

// Entry returns the type entry for name, or nil.
func (f *File) Entry(name string) *TypeEntry {
	for i := range f.Types {
		if f.Types[i].Name == name {
			return &f.Types[i]
		}
	}

	return nil
}

// Options converts a fully layered Settings into transformer options.
func (s Settings) Options() (plan.Options, error) {
	opts := plan.DefaultOptions()

	if s.Layout != "" {
		layout, err := plan.ParseLayout(s.Layout)
		if err != nil {
			return opts, err
		}

		opts.Layout = layout
	}

	if s.Naming != "" {
		style, err := naming.ParseStyle(s.Naming)
		if err != nil {
			return opts, err
		}

		opts.Naming = style
	}

	if len(s.Codecs) > 0 {
		opts.Codecs = nil
		for _, name := range s.Codecs {
			c, err := plan.ParseCodec(name)
			if err != nil {
				return opts, err
			}

			opts.Codecs = append(opts.Codecs, c)
		}
	}

	opts.AssertInterfaces = s.AssertInterfaces

	return opts, nil
}
