package constraint

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Kind distinguishes edges that must hold from edges that hold only when both
// endpoints are present.
type Kind int

const (
	// Mandatory edges must be satisfied. A missing endpoint is an error.
	Mandatory Kind = iota
	// Advisory edges are dropped when either endpoint is absent.
	Advisory
)

func (k Kind) String() string {
	switch k {
	case Mandatory:
		return "mandatory"
	case Advisory:
		return "advisory"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts "mandatory" (alias "sequence") and "advisory" (alias
// "weak"). An empty string parses as Advisory.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mandatory", "sequence":
		return Mandatory, nil
	case "", "advisory", "weak":
		return Advisory, nil
	default:
		return 0, fmt.Errorf("unknown constraint kind %q: must be mandatory or advisory", s)
	}
}

// Provenance locates the declaration that produced a constraint.
type Provenance struct {
	File string
	Line int
}

// IsZero reports whether the provenance is unknown.
func (p Provenance) IsZero() bool {
	return p.File == "" && p.Line == 0
}

func (p Provenance) String() string {
	if p.IsZero() {
		return "<unknown>"
	}
	if p.Line <= 0 {
		return p.File
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// CallerProvenance reports the source location skip frames above its caller.
// CallerProvenance(0) is the line that called it.
func CallerProvenance(skip int) Provenance {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Provenance{}
	}
	return Provenance{File: filepath.ToSlash(file), Line: line}
}

// Constraint is a directed edge: First should run before Second.
type Constraint struct {
	First      string
	Second     string
	Kind       Kind
	Provenance Provenance
}

func (c Constraint) String() string {
	s := fmt.Sprintf("%s %s -> %s", c.Kind, c.First, c.Second)
	if !c.Provenance.IsZero() {
		s += " (declared at " + c.Provenance.String() + ")"
	}
	return s
}
