// Package tiers maps a volunteered-hours count to a named level.
//
// Two presentation profiles exist and are kept apart on purpose: "classic"
// backs the standalone calculator page and "stars" backs the hours page.
package tiers

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	Classic = "classic"
	Stars   = "stars"
)

//go:embed profiles.yaml
var builtin []byte

var ErrUnknownProfile = errors.New("unknown tier profile")

// Tier is one bucket of a profile. Rank 0 is the lowest tier.
type Tier struct {
	Rank        int    `yaml:"-" json:"rank"`
	Min         int    `yaml:"min" json:"min"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
}

type Profile struct {
	Name  string `yaml:"-" json:"name"`
	Title string `yaml:"title" json:"title"`
	Tiers []Tier `yaml:"tiers" json:"tiers"`
}

// Lookup returns the highest tier whose minimum is at or below hours. Counts
// below every minimum land in the lowest tier, so every input has an answer.
func (p Profile) Lookup(hours int) Tier {
	for _, t := range p.Tiers {
		if hours >= t.Min {
			return t
		}
	}
	return p.Tiers[len(p.Tiers)-1]
}

// Registry holds the named profiles.
type Registry map[string]Profile

func (r Registry) Get(name string) (Profile, error) {
	p, ok := r[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type document struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// Parse decodes a profiles document, orders each profile highest minimum
// first and assigns ranks.
func Parse(data []byte) (Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tier profiles: %w", err)
	}
	if len(doc.Profiles) == 0 {
		return nil, fmt.Errorf("tier profiles document defines no profiles")
	}

	reg := make(Registry, len(doc.Profiles))
	for name, p := range doc.Profiles {
		if len(p.Tiers) == 0 {
			return nil, fmt.Errorf("profile %q has no tiers", name)
		}
		sort.SliceStable(p.Tiers, func(i, j int) bool { return p.Tiers[i].Min > p.Tiers[j].Min })

		seen := make(map[int]bool, len(p.Tiers))
		for i := range p.Tiers {
			t := &p.Tiers[i]
			if seen[t.Min] {
				return nil, fmt.Errorf("profile %q has two tiers starting at %d", name, t.Min)
			}
			seen[t.Min] = true
			if t.Label == "" {
				return nil, fmt.Errorf("profile %q tier at %d has no label", name, t.Min)
			}
			t.Rank = len(p.Tiers) - 1 - i
		}
		p.Name = name
		reg[name] = p
	}
	return reg, nil
}

// Default returns the built-in classic and stars profiles.
func Default() Registry {
	reg, err := Parse(builtin)
	if err != nil {
		panic(err)
	}
	return reg
}

// LoadFile reads profiles from path on fs. Profiles it does not define keep
// their built-in version.
func LoadFile(fs afero.Fs, path string) (Registry, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tier profiles %s: %w", path, err)
	}
	loaded, err := Parse(data)
	if err != nil {
		return nil, err
	}
	reg := Default()
	for name, p := range loaded {
		reg[name] = p
	}
	return reg, nil
}
