package yamlconf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/passorder/internal/config"
	"github.com/specialistvlad/passorder/internal/constraint"
	"github.com/specialistvlad/passorder/internal/hcl"
	"github.com/specialistvlad/passorder/internal/phase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lintYAML = `plugins:
  - name: com.example.lint
    display_name: Linter
    sequences:
      - phase: transforming
        passes:
          - name: com.example.lint.check
            display_name: Check
            handler: print
            before_plugin: [com.example.pack]
            after_pass: [com.example.gen.emit]
            config:
              message: checking
              fields:
                level: strict
          - name: com.example.lint.report
    constraints:
      - first: com.example.lint.report
        second: com.example.pack.bundle
        kind: mandatory
`

const lintHCL = `
plugin "com.example.lint" {
  display_name = "Linter"

  sequence "transforming" {
    pass "com.example.lint.check" {
      display_name  = "Check"
      handler       = "print"
      before_plugin = ["com.example.pack"]
      after_pass    = ["com.example.gen.emit"]
      config = {
        message = "checking"
        fields  = { level = "strict" }
      }
    }

    pass "com.example.lint.report" {}
  }

  constraint {
    first  = "com.example.lint.report"
    second = "com.example.pack.bundle"
    kind   = "mandatory"
  }
}
`

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lint.yaml", lintYAML)

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, model.Plugins, 1)

	p := model.Plugins[0]
	assert.Equal(t, "com.example.lint", p.Name)
	assert.Equal(t, "Linter", p.DisplayName)
	assert.Equal(t, 2, p.Source.Line)

	require.Len(t, p.Sequences, 1)
	seq := p.Sequences[0]
	assert.Equal(t, phase.Transforming, seq.Phase)
	assert.Equal(t, 5, seq.Source.Line)
	require.Len(t, seq.Passes, 2)

	check := seq.Passes[0]
	assert.Equal(t, "print", check.Handler)
	assert.Equal(t, []string{"com.example.pack"}, check.BeforePlugin)
	assert.Equal(t, []string{"com.example.gen.emit"}, check.AfterPass)
	assert.Equal(t, 7, check.Source.Line)
	assert.Equal(t, "checking", check.Config.GetAttr("message").AsString())
	assert.Equal(t, "strict", check.Config.GetAttr("fields").GetAttr("level").AsString())

	assert.True(t, seq.Passes[1].Config.IsNull())

	require.Len(t, p.Constraints, 1)
	assert.Equal(t, constraint.Mandatory, p.Constraints[0].Kind)
	assert.Equal(t, 18, p.Constraints[0].Source.Line)
}

func TestLoader_MatchesHCL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lint.yml", lintYAML)
	writeFile(t, dir, "lint.hcl", lintHCL)

	fromYAML, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	fromHCL, err := hcl.NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	assertSameModel(t, fromHCL, fromYAML)
}

func assertSameModel(t *testing.T, want, got *config.Model) {
	t.Helper()
	require.Len(t, got.Plugins, len(want.Plugins))
	for i, wp := range want.Plugins {
		gp := got.Plugins[i]
		assert.Equal(t, wp.Name, gp.Name)
		assert.Equal(t, wp.DisplayName, gp.DisplayName)
		require.Len(t, gp.Sequences, len(wp.Sequences))
		for j, ws := range wp.Sequences {
			gs := gp.Sequences[j]
			assert.Equal(t, ws.Phase, gs.Phase)
			require.Len(t, gs.Passes, len(ws.Passes))
			for k, wps := range ws.Passes {
				gps := gs.Passes[k]
				assert.Equal(t, wps.Name, gps.Name)
				assert.Equal(t, wps.DisplayName, gps.DisplayName)
				assert.Equal(t, wps.Handler, gps.Handler)
				assert.Equal(t, wps.BeforePlugin, gps.BeforePlugin)
				assert.Equal(t, wps.AfterPass, gps.AfterPass)
				assert.True(t, wps.Config.Type().Equals(gps.Config.Type()), "config type of %s", wps.Name)
				if !wps.Config.IsNull() {
					assert.True(t, wps.Config.Equals(gps.Config).True(), "config of %s", wps.Name)
				}
			}
		}
		require.Len(t, gp.Constraints, len(wp.Constraints))
		for j, wc := range wp.Constraints {
			gc := gp.Constraints[j]
			assert.Equal(t, wc.First, gc.First)
			assert.Equal(t, wc.Second, gc.Second)
			assert.Equal(t, wc.Kind, gc.Kind)
		}
	}
}

func TestLoader_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.yaml", "")

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, model.Plugins)
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "malformed",
			body:    "plugins: [",
			wantErr: "failed to decode YAML file",
		},
		{
			name:    "unknown top-level field",
			body:    "runners: []\n",
			wantErr: "failed to decode YAML file",
		},
		{
			name: "unknown pass field",
			body: `plugins:
  - name: x
    sequences:
      - phase: resolving
        passes:
          - name: p
            colour: red
`,
			wantErr: "field colour not found",
		},
		{
			name: "unknown phase",
			body: `plugins:
  - name: x
    sequences:
      - phase: linking
`,
			wantErr: `unknown phase "linking"`,
		},
		{
			name: "unknown kind",
			body: `plugins:
  - name: x
    constraints:
      - first: a
        second: b
        kind: strong
`,
			wantErr: "unknown constraint kind",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "bad.yaml", tc.body)

			_, err := NewLoader().Load(context.Background(), dir)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
