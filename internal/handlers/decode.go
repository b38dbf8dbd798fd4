package handlers

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/specialistvlad/passorder/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decodeConfig populates target, a pointer to a cty-tagged struct, from an
// object or map value. Attributes missing from cfg are decoded as null, which
// leaves optional fields at their zero value.
func decodeConfig(ctx context.Context, cfg cty.Value, target any) error {
	logger := ctxlog.FromContext(ctx)

	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config target must be a non-nil pointer to a struct, got %T", target)
	}

	impliedType, err := gocty.ImpliedType(target)
	if err != nil {
		return fmt.Errorf("cannot imply cty type from %T: %w", target, err)
	}
	want := impliedType.AttributeTypes()

	given := map[string]cty.Value{}
	if cfg != cty.NilVal && !cfg.IsNull() {
		if !cfg.IsKnown() {
			return fmt.Errorf("config must be known")
		}
		if !cfg.Type().IsObjectType() && !cfg.Type().IsMapType() {
			return fmt.Errorf("config must be an object, got %s", cfg.Type().FriendlyName())
		}
		given = cfg.AsValueMap()
	}

	var errs []string
	for name := range given {
		if _, ok := want[name]; !ok {
			errs = append(errs, fmt.Sprintf("unsupported attribute %q", name))
		}
	}
	for _, name := range requiredAttributes(ptr.Elem().Type()) {
		if v, ok := given[name]; !ok || v.IsNull() {
			errs = append(errs, fmt.Sprintf("missing required attribute %q", name))
		}
	}
	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}

	filled := make(map[string]cty.Value, len(want))
	for name, ty := range want {
		if v, ok := given[name]; ok {
			filled[name] = v
			continue
		}
		filled[name] = cty.NullVal(ty)
	}

	var obj cty.Value
	if len(filled) == 0 {
		obj = cty.EmptyObjectVal
	} else {
		obj = cty.ObjectVal(filled)
	}

	converted, err := convert.Convert(obj, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert config to %s: %w", impliedType.FriendlyName(), err)
	}
	logger.Debug("Decoding handler config.", "go_type", ptr.Elem().Type().String(), "attributes", len(given))

	return gocty.FromCtyValue(converted, target)
}

// requiredAttributes lists the cty-tagged fields that cannot hold null.
func requiredAttributes(t reflect.Type) []string {
	var names []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := strings.Split(field.Tag.Get("cty"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		switch field.Type.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
			continue
		}
		if field.Type == reflect.TypeOf(cty.Value{}) {
			continue
		}
		names = append(names, tag)
	}
	sort.Strings(names)
	return names
}
