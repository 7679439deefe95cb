// Package config loads a lineedit.Desc overlay from a small
// human-editable YAML file, so an embedder can externalize prompt and
// delimiter configuration instead of constructing a Desc by hand.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pks-os/clink/pkg/lineedit"
)

// File is the on-disk shape of a config overlay. Every field is
// optional; a field left at its zero value in the file simply leaves
// the corresponding Desc field untouched when merged.
type File struct {
	ShellName string `yaml:"shell_name"`
	Prompt    string `yaml:"prompt"`

	CommandDelims string `yaml:"command_delims"`
	WordDelims    string `yaml:"word_delims"`
	PartialDelims string `yaml:"partial_delims"`

	// QuoteOpen and QuoteClose are written as one-character strings in
	// the file, since YAML has no native byte/rune scalar.
	QuoteOpen      string `yaml:"quote_open"`
	QuoteClose     string `yaml:"quote_close"`
	AutoQuoteChars string `yaml:"auto_quote_chars"`
}

// Load reads path and merges it over base, returning the merged Desc.
// base is never mutated. A parse error is returned as-is and base is
// returned unchanged alongside it, so callers can't accidentally run
// with a half-applied overlay.
func Load(path string, base lineedit.Desc) (lineedit.Desc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return base, err
	}
	return Merge(base, f), nil
}

// Merge overlays the non-zero fields of f onto base and returns the
// result; base is not mutated.
func Merge(base lineedit.Desc, f File) lineedit.Desc {
	d := base
	if f.ShellName != "" {
		d.ShellName = f.ShellName
	}
	if f.Prompt != "" {
		d.Prompt = []byte(f.Prompt)
	}
	if f.CommandDelims != "" {
		d.CommandDelims = f.CommandDelims
	}
	if f.WordDelims != "" {
		d.WordDelims = f.WordDelims
	}
	if f.PartialDelims != "" {
		d.PartialDelims = f.PartialDelims
	}
	if f.QuoteOpen != "" {
		d.QuoteOpen = f.QuoteOpen[0]
	}
	if f.QuoteClose != "" {
		d.QuoteClose = f.QuoteClose[0]
	}
	if f.AutoQuoteChars != "" {
		d.AutoQuoteChars = f.AutoQuoteChars
	}
	return d
}
