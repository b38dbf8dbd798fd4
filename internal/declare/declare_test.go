package declare

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/specialistvlad/passorder/internal/constraint"
	"github.com/specialistvlad/passorder/internal/pass"
	"github.com/specialistvlad/passorder/internal/passregistry"
	"github.com/specialistvlad/passorder/internal/phase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type edge struct {
	first, second string
	kind          constraint.Kind
}

func edgesOf(p *Plugin) []edge {
	var out []edge
	for _, c := range p.Constraints() {
		out = append(out, edge{c.First, c.Second, c.Kind})
	}
	return out
}

func names(passes []pass.Pass) []string {
	out := make([]string, 0, len(passes))
	for _, p := range passes {
		out = append(out, p.QualifiedName)
	}
	return out
}

func TestAnchorNames(t *testing.T) {
	assert.Equal(t, "X/<transforming start>", PhaseStart("X", phase.Transforming))
	assert.Equal(t, "X/<transforming end>", PhaseEnd("X", phase.Transforming))
	assert.NotEqual(t, PhaseStart("X", phase.Resolving), PhaseStart("X", phase.Optimizing))
}

func TestSequence_AnchorsAndEdges(t *testing.T) {
	p := NewPlugin("X")
	seq := p.Sequence(phase.Transforming)
	seq.Run(pass.Descriptor{QualifiedName: "x.one"})
	seq.Run(pass.Descriptor{QualifiedName: "x.two"})
	require.NoError(t, p.Err())

	assert.Equal(t, []string{
		"X/<transforming start>",
		"X/<transforming end>",
		"X/sequence#0/<sequence start>",
		"X/sequence#0/<sequence end>",
		"x.one",
		"x.two",
	}, names(p.Passes()))

	m := constraint.Mandatory
	assert.Equal(t, []edge{
		{"X/<transforming start>", "X/<transforming end>", m},
		{"X/<transforming start>", "X/sequence#0/<sequence start>", m},
		{"X/sequence#0/<sequence end>", "X/<transforming end>", m},
		{"X/sequence#0/<sequence start>", "X/sequence#0/<sequence end>", m},
		{"X/sequence#0/<sequence start>", "x.one", m},
		{"x.one", "X/sequence#0/<sequence end>", m},
		{"X/sequence#0/<sequence start>", "x.two", m},
		{"x.two", "X/sequence#0/<sequence end>", m},
		{"x.one", "x.two", m},
	}, edgesOf(p))

	for _, ps := range p.Passes() {
		assert.Equal(t, strings.Contains(ps.QualifiedName, "<"), ps.Anchor, ps.QualifiedName)
		assert.Equal(t, phase.Transforming, ps.Phase)
		assert.Equal(t, "X", ps.Plugin)
	}
}

func TestSequence_PhaseAnchorsMemoized(t *testing.T) {
	p := NewPlugin("X")
	p.Sequence(phase.Transforming).Run(pass.Descriptor{QualifiedName: "a"})
	p.Sequence(phase.Transforming).Run(pass.Descriptor{QualifiedName: "b"})
	p.Sequence(phase.Optimizing).Run(pass.Descriptor{QualifiedName: "c"})
	require.NoError(t, p.Err())

	count := map[string]int{}
	for _, ps := range p.Passes() {
		count[ps.QualifiedName]++
	}
	assert.Equal(t, 1, count[PhaseStart("X", phase.Transforming)])
	assert.Equal(t, 1, count[PhaseEnd("X", phase.Transforming)])
	assert.Equal(t, 1, count[PhaseStart("X", phase.Optimizing)])
	assert.Equal(t, 1, count["X/sequence#1/<sequence start>"], "each sequence gets its own anchors")
	assert.Equal(t, 1, count["X/sequence#2/<sequence end>"])

	var spans int
	for _, e := range edgesOf(p) {
		if e.first == PhaseStart("X", phase.Transforming) && e.second == PhaseEnd("X", phase.Transforming) {
			spans++
		}
	}
	assert.Equal(t, 1, spans, "the start-to-end edge is added once per phase")
}

func TestSequence_ChainsOnlyWithinOneSequence(t *testing.T) {
	p := NewPlugin("X")
	p.Sequence(phase.Generating).Run(pass.Descriptor{QualifiedName: "a"})
	p.Sequence(phase.Generating).Run(pass.Descriptor{QualifiedName: "b"})

	for _, e := range edgesOf(p) {
		assert.False(t, e.first == "a" && e.second == "b", "separate sequences are not chained")
	}
}

func TestDeclaringPass_AdvisoryEdges(t *testing.T) {
	p := NewPlugin("Y")
	dp := p.Sequence(phase.Transforming).Run(pass.Descriptor{QualifiedName: "y.q"}).
		BeforePlugin("X").
		AfterPlugin(" W ").
		BeforePass("x.p1").
		AfterPass("w.p").
		BeforePlugin("")
	require.NoError(t, dp.Err())
	assert.Equal(t, "y.q", dp.QualifiedName())

	a := constraint.Advisory
	all := edgesOf(p)
	assert.Equal(t, []edge{
		{"y.q", "X/<transforming start>", a},
		{"W/<transforming end>", "y.q", a},
		{"y.q", "x.p1", a},
		{"w.p", "y.q", a},
	}, all[len(all)-4:])
}

func TestDeclaringPass_Provenance(t *testing.T) {
	p := NewPlugin("Y")
	seq := p.Sequence(phase.Transforming)
	seq.Run(pass.Descriptor{QualifiedName: "y.q"}).BeforePass("other")

	all := p.Constraints()
	last := all[len(all)-1]
	assert.True(t, strings.HasSuffix(last.Provenance.File, "declare_test.go"), "got %s", last.Provenance.File)
	assert.Positive(t, last.Provenance.Line)

	pinned := constraint.Provenance{File: "plugins.hcl", Line: 12}
	seq.RunAt(pass.Descriptor{QualifiedName: "y.r"}, pinned).At(pinned).BeforePass("other")
	all = p.Constraints()
	for _, c := range all[len(all)-4:] {
		assert.Equal(t, pinned, c.Provenance, c.String())
	}
}

func TestRunInline(t *testing.T) {
	p := NewPlugin("X")
	seq := p.Sequence(phase.Resolving)
	called := false
	first := seq.RunInline("Collect", func(ctx context.Context, target any) error {
		called = true
		return nil
	})
	second := seq.RunInline("Collect again", nil)
	require.NoError(t, p.Err())

	assert.Equal(t, "X/sequence#0/inline#0", first.QualifiedName())
	assert.Equal(t, "X/sequence#0/inline#1", second.QualifiedName())

	got, ok := p.Registry().Lookup(first.QualifiedName())
	require.True(t, ok)
	assert.Equal(t, "Collect", got.DisplayName)
	require.NotNil(t, got.Func)
	require.NoError(t, got.Func(context.Background(), nil))
	assert.True(t, called)
}

func TestRun_DuplicateIsStickyButNonFatal(t *testing.T) {
	p := NewPlugin("X")
	seq := p.Sequence(phase.Transforming)
	seq.Run(pass.Descriptor{QualifiedName: "a"})
	dup := seq.Run(pass.Descriptor{QualifiedName: "a"}).BeforePlugin("Z")
	seq.Run(pass.Descriptor{QualifiedName: "b"})

	require.Error(t, dup.Err())
	assert.True(t, errors.Is(dup.Err(), passregistry.ErrDuplicateQualifiedName))
	assert.Empty(t, dup.QualifiedName())

	assert.True(t, errors.Is(p.Err(), passregistry.ErrDuplicateQualifiedName))

	for _, e := range edgesOf(p) {
		assert.NotEqual(t, PhaseStart("Z", phase.Transforming), e.second, "a failed handle adds no edges")
	}
	var chained bool
	for _, e := range edgesOf(p) {
		if e.first == "a" && e.second == "b" {
			chained = true
		}
	}
	assert.True(t, chained, "the chain continues from the last successful pass")
}

func TestRun_InvalidDescriptor(t *testing.T) {
	p := NewPlugin("X")
	dp := p.Sequence(phase.Transforming).Run(pass.Descriptor{QualifiedName: " "})
	assert.ErrorContains(t, dp.Err(), "qualified name is required")
	assert.ErrorContains(t, p.Err(), "declared at")
}

func TestSequence_InvalidPhase(t *testing.T) {
	p := NewPlugin("X")
	seq := p.Sequence(phase.Phase(42))
	dp := seq.Run(pass.Descriptor{QualifiedName: "a"})
	assert.ErrorContains(t, dp.Err(), "invalid phase")
	assert.ErrorContains(t, p.Err(), "invalid phase")
	assert.Empty(t, p.Passes())
}

func TestNewPlugin_EmptyName(t *testing.T) {
	p := NewPlugin("  ")
	assert.ErrorContains(t, p.Err(), "plugin qualified name is required")
}

func TestConstrain(t *testing.T) {
	p := NewPlugin("X")
	require.NoError(t, p.Constrain("a", "b", constraint.Mandatory))
	assert.Error(t, p.Constrain("a", "", constraint.Advisory))

	all := p.Constraints()
	require.Len(t, all, 1)
	assert.Equal(t, "a", all[0].First)
	assert.Equal(t, constraint.Mandatory, all[0].Kind)
	assert.True(t, strings.HasSuffix(all[0].Provenance.File, "declare_test.go"))
}

func TestPluginFunc(t *testing.T) {
	d := PluginFunc("X", func(p *Plugin) error {
		p.Sequence(phase.Optimizing).Run(pass.Descriptor{QualifiedName: "x.opt"})
		return nil
	})
	assert.Equal(t, "X", d.QualifiedName())

	p := NewPlugin(d.QualifiedName())
	require.NoError(t, d.Declare(p))
	_, ok := p.Registry().Lookup("x.opt")
	assert.True(t, ok)

	assert.NoError(t, PluginFunc("empty", nil).Declare(NewPlugin("empty")))
}

func TestDescribeAnchor(t *testing.T) {
	got, ok := DescribeAnchor(PhaseStart("com.example.pack", phase.Transforming))
	require.True(t, ok)
	assert.Equal(t, "start of plugin com.example.pack in phase transforming", got)

	got, ok = DescribeAnchor(PhaseEnd("X", phase.Optimizing))
	require.True(t, ok)
	assert.Equal(t, "end of plugin X in phase optimizing", got)

	_, ok = DescribeAnchor("x.pass")
	assert.False(t, ok)
	_, ok = DescribeAnchor("/<resolving start>")
	assert.False(t, ok)

	p := NewPlugin("X")
	p.Sequence(phase.Generating)
	registered, ok := p.Registry().Lookup(PhaseStart("X", phase.Generating))
	require.True(t, ok)
	want, _ := DescribeAnchor(registered.QualifiedName)
	assert.Equal(t, want, registered.DisplayName, "registered anchors carry the same description")
}
