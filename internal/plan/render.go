package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/passorder/internal/phase"
)

// Format selects how Render prints a plan.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be one of text, json, yaml", s)
	}
}

type document struct {
	Passes []Entry `json:"passes" yaml:"passes"`
}

// Render writes the plan to w.
func Render(w io.Writer, p *Plan, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(document{Passes: nonNil(p.entries)})
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document{Passes: nonNil(p.entries)}); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return renderText(w, p)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func nonNil(entries []Entry) []Entry {
	if entries == nil {
		return []Entry{}
	}
	return entries
}

func renderText(w io.Writer, p *Plan) error {
	r := lipgloss.NewRenderer(w)
	heading := r.NewStyle().Bold(true)
	muted := r.NewStyle().Faint(true)

	var b strings.Builder
	if p.Len() == 0 {
		b.WriteString(muted.Render("(no passes)"))
		b.WriteString("\n")
	}

	n := 0
	for _, ph := range phase.All() {
		entries := p.Phase(ph)
		if len(entries) == 0 {
			continue
		}
		b.WriteString(heading.Render(ph.String()))
		b.WriteString("\n")
		for _, e := range entries {
			n++
			label := e.QualifiedName
			if e.DisplayName != "" && e.DisplayName != e.QualifiedName {
				label = fmt.Sprintf("%s (%s)", e.DisplayName, e.QualifiedName)
			}
			fmt.Fprintf(&b, "  %3d. %s %s\n", n, label, muted.Render("["+e.Plugin+"]"))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderDropped writes one line per dropped constraint.
func RenderDropped(w io.Writer, p *Plan) error {
	for _, d := range p.Dropped() {
		if _, err := fmt.Fprintf(w, "dropped %s: %s\n", d, d.Reason); err != nil {
			return err
		}
	}
	return nil
}
