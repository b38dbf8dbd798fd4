package declare

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/passorder/internal/phase"
)

// PhaseStart returns the qualified name of the anchor that opens the plugin's
// span in the phase. The name is derived, not looked up, so any plugin can
// refer to another plugin's anchors. Only the owning plugin registers them.
func PhaseStart(plugin string, ph phase.Phase) string {
	return fmt.Sprintf("%s/<%s start>", plugin, ph)
}

// PhaseEnd returns the qualified name of the anchor that closes the plugin's
// span in the phase.
func PhaseEnd(plugin string, ph phase.Phase) string {
	return fmt.Sprintf("%s/<%s end>", plugin, ph)
}

func sequenceBase(plugin string, n int) string {
	return fmt.Sprintf("%s/sequence#%d", plugin, n)
}

func sequenceStart(base string) string { return base + "/<sequence start>" }

func sequenceEnd(base string) string { return base + "/<sequence end>" }

// anchorPair is the memoized (start, end) anchor pair of one phase.
type anchorPair struct {
	start, end string
}

// DescribeAnchor renders a phase anchor name as diagnostics show it, for
// example "start of plugin X in phase transforming". It works for anchors
// that were never registered.
func DescribeAnchor(name string) (string, bool) {
	for _, ph := range phase.All() {
		for _, edge := range []string{"start", "end"} {
			suffix := fmt.Sprintf("/<%s %s>", ph, edge)
			if plugin, ok := strings.CutSuffix(name, suffix); ok && plugin != "" {
				return fmt.Sprintf("%s of plugin %s in phase %s", edge, plugin, ph), true
			}
		}
	}
	return "", false
}
