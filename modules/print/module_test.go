package print

import (
	"bytes"
	"context"
	"testing"

	"github.com/specialistvlad/passorder/internal/ctxlog"
	"github.com/specialistvlad/passorder/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestPrint_WritesToTarget(t *testing.T) {
	h := handlers.New()
	(&Module{}).Register(h)

	fn, err := h.Bind(context.Background(), "print", cty.ObjectVal(map[string]cty.Value{
		"message": cty.StringVal("checking"),
		"fields": cty.ObjectVal(map[string]cty.Value{
			"b": cty.StringVal("2"),
			"a": cty.StringVal("1"),
		}),
	}))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, fn(ctxlog.Discard(context.Background()), &out))
	assert.Equal(t, "checking\n      a = \"1\"\n      b = \"2\"\n", out.String())
}

func TestPrint_NoConfig(t *testing.T) {
	h := handlers.New()
	(&Module{}).Register(h)

	fn, err := h.Bind(context.Background(), "print", cty.NullVal(cty.DynamicPseudoType))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, fn(context.Background(), &out))
	assert.Equal(t, "(null)\n", out.String())

	assert.NoError(t, fn(ctxlog.Discard(context.Background()), nil), "a non-writer target is logged")
}

func TestPrint_RejectsUnknownAttribute(t *testing.T) {
	h := handlers.New()
	(&Module{}).Register(h)

	_, err := h.Bind(context.Background(), "print", cty.ObjectVal(map[string]cty.Value{
		"colour": cty.StringVal("red"),
	}))
	assert.ErrorContains(t, err, `unsupported attribute "colour"`)
}
