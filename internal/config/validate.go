package config

import (
	"fmt"
	"strings"
)

// Validate reports structural problems that are cheaper to catch before
// resolution, such as unnamed plugins or passes. A pass without a handler is
// valid and orders like any other pass, doing nothing when run.
func (m *Model) Validate() error {
	var problems []string
	for _, p := range m.Plugins {
		if p.Name == "" {
			problems = append(problems, fmt.Sprintf("%s: plugin has no name", p.Source))
			continue
		}
		for _, s := range p.Sequences {
			for _, ps := range s.Passes {
				if ps.Name == "" {
					problems = append(problems, fmt.Sprintf("%s: plugin %s: pass has no name", ps.Source, p.Name))
				}
			}
		}
		for _, c := range p.Constraints {
			if c.First == "" || c.Second == "" {
				problems = append(problems, fmt.Sprintf("%s: plugin %s: constraint needs both first and second", c.Source, p.Name))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("manifest validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
