package yamlconf

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

type fileRoot struct {
	Plugins []*pluginDoc `yaml:"plugins"`
}

type pluginDoc struct {
	Name        string           `yaml:"name"`
	DisplayName string           `yaml:"display_name"`
	Sequences   []*sequenceDoc   `yaml:"sequences"`
	Constraints []*constraintDoc `yaml:"constraints"`
	line        int
}

func (p *pluginDoc) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, "name", "display_name", "sequences", "constraints"); err != nil {
		return err
	}
	type raw pluginDoc
	if err := node.Decode((*raw)(p)); err != nil {
		return err
	}
	p.line = node.Line
	return nil
}

type sequenceDoc struct {
	Phase  string     `yaml:"phase"`
	Passes []*passDoc `yaml:"passes"`
	line   int
}

func (s *sequenceDoc) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, "phase", "passes"); err != nil {
		return err
	}
	type raw sequenceDoc
	if err := node.Decode((*raw)(s)); err != nil {
		return err
	}
	s.line = node.Line
	return nil
}

type passDoc struct {
	Name         string    `yaml:"name"`
	DisplayName  string    `yaml:"display_name"`
	Handler      string    `yaml:"handler"`
	BeforePlugin []string  `yaml:"before_plugin"`
	BeforePass   []string  `yaml:"before_pass"`
	AfterPlugin  []string  `yaml:"after_plugin"`
	AfterPass    []string  `yaml:"after_pass"`
	Config       yaml.Node `yaml:"config"`
	line         int
}

func (p *passDoc) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, "name", "display_name", "handler",
		"before_plugin", "before_pass", "after_plugin", "after_pass", "config"); err != nil {
		return err
	}
	type raw passDoc
	if err := node.Decode((*raw)(p)); err != nil {
		return err
	}
	p.line = node.Line
	return nil
}

type constraintDoc struct {
	First  string `yaml:"first"`
	Second string `yaml:"second"`
	Kind   string `yaml:"kind"`
	line   int
}

func (c *constraintDoc) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, "first", "second", "kind"); err != nil {
		return err
	}
	type raw constraintDoc
	if err := node.Decode((*raw)(c)); err != nil {
		return err
	}
	c.line = node.Line
	return nil
}

// checkKeys rejects mapping keys outside allowed. Nested decoders started by
// yaml.Node.Decode do not inherit KnownFields, so each block checks itself.
func checkKeys(node *yaml.Node, allowed ...string) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !slices.Contains(allowed, key.Value) {
			return fmt.Errorf("line %d: field %s not found", key.Line, key.Value)
		}
	}
	return nil
}
