package plan

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/specialistvlad/passorder/internal/constraint"
	"github.com/specialistvlad/passorder/internal/phase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func samplePlan() *Plan {
	return New([]Entry{
		{QualifiedName: "r.one", DisplayName: "r.one", Plugin: "R", Phase: phase.Resolving},
		{QualifiedName: "t.one", DisplayName: "Transform one", Plugin: "T", Phase: phase.Transforming},
		{QualifiedName: "t.two", DisplayName: "t.two", Plugin: "T", Phase: phase.Transforming},
	}, []Dropped{
		{
			Constraint: constraint.Constraint{
				First:      "t.one",
				Second:     "Z/<transforming start>",
				Kind:       constraint.Advisory,
				Provenance: constraint.Provenance{File: "z.hcl", Line: 3},
			},
			First:  "t.one",
			Second: "start of plugin Z in phase transforming",
			Reason: "start of plugin Z in phase transforming is not declared",
		},
	})
}

func TestPlan_Accessors(t *testing.T) {
	p := samplePlan()
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, []string{"r.one", "t.one", "t.two"}, p.Names())
	assert.Len(t, p.Phase(phase.Transforming), 2)
	assert.Empty(t, p.Phase(phase.Optimizing))
	require.Len(t, p.Dropped(), 1)

	entries := p.Entries()
	entries[0].QualifiedName = "mutated"
	assert.Equal(t, "r.one", p.Names()[0], "plans are immutable values")
}

func TestNew_CopiesInput(t *testing.T) {
	in := []Entry{{QualifiedName: "a"}}
	p := New(in, nil)
	in[0].QualifiedName = "b"
	assert.Equal(t, []string{"a"}, p.Names())
}

func TestParseFormat(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Format
	}{
		{"text", FormatText},
		{"JSON", FormatJSON},
		{" yaml ", FormatYAML},
		{"", FormatText},
	} {
		got, err := ParseFormat(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}

	_, err := ParseFormat("xml")
	assert.ErrorContains(t, err, "invalid output format")
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, samplePlan(), FormatText))
	out := buf.String()

	assert.Contains(t, out, "resolving")
	assert.Contains(t, out, "transforming")
	assert.NotContains(t, out, "optimizing")
	assert.Contains(t, out, "1. r.one")
	assert.Contains(t, out, "2. Transform one (t.one)")
	assert.Contains(t, out, "3. t.two")
	assert.Contains(t, out, "[T]")
	assert.Less(t, strings.Index(out, "resolving"), strings.Index(out, "transforming"))
}

func TestRender_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, New(nil, nil), FormatText))
	assert.Contains(t, buf.String(), "(no passes)")
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, samplePlan(), FormatJSON))

	var doc struct {
		Passes []struct {
			QualifiedName string `json:"qualified_name"`
			Plugin        string `json:"plugin"`
			Phase         string `json:"phase"`
		} `json:"passes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Passes, 3)
	assert.Equal(t, "t.one", doc.Passes[1].QualifiedName)
	assert.Equal(t, "transforming", doc.Passes[1].Phase)

	buf.Reset()
	require.NoError(t, Render(&buf, New(nil, nil), FormatJSON))
	assert.JSONEq(t, `{"passes": []}`, buf.String())
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, samplePlan(), FormatYAML))

	var doc struct {
		Passes []struct {
			QualifiedName string `yaml:"qualified_name"`
			DisplayName   string `yaml:"display_name"`
			Phase         string `yaml:"phase"`
		} `yaml:"passes"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Passes, 3)
	assert.Equal(t, "Transform one", doc.Passes[1].DisplayName)
	assert.Equal(t, "resolving", doc.Passes[0].Phase)
}

func TestRender_Unsupported(t *testing.T) {
	err := Render(&bytes.Buffer{}, samplePlan(), Format("xml"))
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestRenderDropped(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDropped(&buf, samplePlan()))
	assert.Equal(t, "dropped advisory t.one -> start of plugin Z in phase transforming (declared at z.hcl:3): "+
		"start of plugin Z in phase transforming is not declared\n", buf.String())
	assert.NotContains(t, buf.String(), "/<")
}

func TestDropped_StringFallsBackToNames(t *testing.T) {
	d := Dropped{Constraint: constraint.Constraint{First: "a", Second: "b", Kind: constraint.Advisory}}
	assert.Equal(t, "advisory a -> b", d.String())
}
