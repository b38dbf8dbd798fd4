package hcl

import (
	"context"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/passorder/internal/constraint"
	"github.com/specialistvlad/passorder/internal/ctxlog"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional expression fields with a
// zero-width placeholder, so a nil check is not enough: a real attribute
// occupies bytes in the file.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// provenanceOf reports where a block body starts.
func provenanceOf(file string, body hcl.Body) constraint.Provenance {
	prov := constraint.Provenance{File: filepath.ToSlash(file)}
	if b, ok := body.(*hclsyntax.Body); ok {
		prov.Line = b.SrcRange.Start.Line
	}
	return prov
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
