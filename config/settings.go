package config

import (
	"fmt"

	"github.com/combkit/combkit/apicaller"
	"github.com/combkit/combkit/logger"
)

// Settings is the standard top-level configuration for applications built
// on combkit. Projects can embed it in their own config structs:
//
//	type MyConfig struct {
//	    config.Settings `yaml:",inline" mapstructure:",squash"`
//	    Warehouse       WarehouseConfig `yaml:"warehouse" mapstructure:"warehouse"`
//	}
type Settings struct {
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`

	// Callers holds named caller configurations; the map key becomes the
	// caller kind unless the entry sets its own.
	Callers map[string]apicaller.Config `yaml:"callers" mapstructure:"callers"`
}

// ApplyDefaults applies default values to all nested configurations.
func (s *Settings) ApplyDefaults() {
	s.Logging.ApplyDefaults()
	for name, c := range s.Callers {
		if c.Kind == "" {
			c.Kind = name
		}
		c.ApplyDefaults()
		s.Callers[name] = c
	}
}

// Validate validates all nested configurations.
func (s *Settings) Validate() error {
	if err := s.Logging.Validate(); err != nil {
		return err
	}
	for name, c := range s.Callers {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("callers.%s: %w", name, err)
		}
	}
	return nil
}
