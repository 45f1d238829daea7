package equity

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/tetrisbot/cache"
	"github.com/domino14/tetrisbot/config"
	"github.com/domino14/tetrisbot/features"
)

// profileFile is the on-disk form of a profile. Anything left out is
// taken from the base profile.
type profileFile struct {
	Name               string `yaml:"name"`
	Base               string `yaml:"base"`
	Rotations          *int   `yaml:"rotations"`
	RestrictLastColumn *bool  `yaml:"restrict-last-column"`
	DisableOverride    bool   `yaml:"disable-override"`
	Weights            []struct {
		Feature     string  `yaml:"feature"`
		Coefficient float64 `yaml:"coefficient"`
	} `yaml:"weights"`
}

// ParseProfile reads a YAML profile definition.
func ParseProfile(data []byte) (*StaticProfile, error) {
	var pf profileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	base := pf.Base
	if base == "" {
		base = DellacherieProfileName
	}
	p, err := Builtin(base)
	if err != nil {
		return nil, err
	}
	if pf.Name != "" {
		p.name = pf.Name
	}
	if pf.Rotations != nil {
		if *pf.Rotations < 1 || *pf.Rotations > 4 {
			return nil, fmt.Errorf("rotations must be between 1 and 4, got %d", *pf.Rotations)
		}
		p.rotations = *pf.Rotations
	}
	if pf.RestrictLastColumn != nil {
		p.restrictLastColumn = *pf.RestrictLastColumn
	}
	if pf.DisableOverride {
		p.override = nil
	}
	if len(pf.Weights) > 0 {
		weights := make(Weights, 0, len(pf.Weights))
		for _, w := range pf.Weights {
			f, err := features.ParseFeature(w.Feature)
			if err != nil {
				return nil, err
			}
			weights = append(weights, Weight{Feature: f, Coefficient: w.Coefficient})
		}
		p.weights = weights
	}
	return p, nil
}

func profileCacheLoadFunc(cfg *config.Config, key string) (any, error) {
	// key is "profile:<path>"
	path := key[len("profile:"):]
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseProfile(data)
}

// LoadProfile returns the profile the configuration asks for: a YAML file
// when profile-path is set, otherwise a builtin by name.
func LoadProfile(cfg *config.Config) (Profile, error) {
	path := cfg.GetString(config.ConfigProfilePath)
	if path == "" {
		return Builtin(cfg.GetString(config.ConfigProfile))
	}
	obj, err := cache.Load(cfg, "profile:"+path, profileCacheLoadFunc)
	if err != nil {
		return nil, err
	}
	p := obj.(*StaticProfile)
	log.Info().Str("path", path).Str("profile", p.Name()).Msg("loaded-profile")
	return p, nil
}
