package route

import (
	"strings"

	"github.com/ifuentes/raceway/pkg/plan"
)

// ResolveEndpoint maps a circuit endpoint reference onto a canvas node id.
// Resolution order: exact node id, then exact name or tag match, then
// case-folded name or tag match. An exact-string hit always beats a
// case-folded one.
func ResolveEndpoint(canvas *plan.Canvas, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}

	for _, n := range canvas.Nodes {
		if n.ID == ref {
			return n.ID, true
		}
	}

	folded := ""
	for _, n := range canvas.Nodes {
		name := strings.TrimSpace(n.Name)
		tag := nodeTag(n)
		if name == ref || tag == ref {
			return n.ID, true
		}
		if folded == "" && (strings.EqualFold(name, ref) || strings.EqualFold(tag, ref)) {
			folded = n.ID
		}
	}
	if folded != "" {
		return folded, true
	}
	return "", false
}

func nodeTag(n plan.Node) string {
	if v, ok := n.Props["tag"]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
