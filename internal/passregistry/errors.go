package passregistry

import (
	"errors"
	"fmt"
)

// ErrDuplicateQualifiedName is matched by every DuplicateNameError.
var ErrDuplicateQualifiedName = errors.New("duplicate qualified name")

// DuplicateNameError reports two passes (or two plugins) claiming the same
// qualified name.
type DuplicateNameError struct {
	// Kind is "pass" or "plugin".
	Kind string
	Name string
	// Owners lists the plugins that declared the name, first declaration first.
	Owners []string
}

func (e *DuplicateNameError) Error() string {
	msg := fmt.Sprintf("%s: %s %q is declared more than once", ErrDuplicateQualifiedName, e.Kind, e.Name)
	if len(e.Owners) == 2 && e.Owners[0] == e.Owners[1] {
		return fmt.Sprintf("%s (both times by plugin %s)", msg, e.Owners[0])
	}
	if len(e.Owners) == 2 {
		return fmt.Sprintf("%s (by plugins %s and %s)", msg, e.Owners[0], e.Owners[1])
	}
	return msg
}

// Is allows errors.Is(err, ErrDuplicateQualifiedName).
func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateQualifiedName
}
