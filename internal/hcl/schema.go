package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is the top level of a manifest file.
type fileRoot struct {
	Plugins []*pluginBlock `hcl:"plugin,block"`
}

type pluginBlock struct {
	Name        string             `hcl:"name,label"`
	DisplayName *string            `hcl:"display_name,optional"`
	Sequences   []*sequenceBlock   `hcl:"sequence,block"`
	Constraints []*constraintBlock `hcl:"constraint,block"`
	Body        hcl.Body           `hcl:",body"`
}

type sequenceBlock struct {
	Phase  string       `hcl:"phase,label"`
	Passes []*passBlock `hcl:"pass,block"`
	Body   hcl.Body     `hcl:",body"`
}

type passBlock struct {
	Name         string         `hcl:"name,label"`
	DisplayName  *string        `hcl:"display_name,optional"`
	Handler      *string        `hcl:"handler,optional"`
	BeforePlugin []string       `hcl:"before_plugin,optional"`
	BeforePass   []string       `hcl:"before_pass,optional"`
	AfterPlugin  []string       `hcl:"after_plugin,optional"`
	AfterPass    []string       `hcl:"after_pass,optional"`
	Config       hcl.Expression `hcl:"config,optional"`
	Body         hcl.Body       `hcl:",body"`
}

type constraintBlock struct {
	First  string   `hcl:"first"`
	Second string   `hcl:"second"`
	Kind   *string  `hcl:"kind,optional"`
	Body   hcl.Body `hcl:",body"`
}
