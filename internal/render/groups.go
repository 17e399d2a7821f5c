package render

import "InkBinder/internal/logging"

// GroupStack tracks BeginGroup/EndGroup nesting for a backend. Backends
// embed it and call Push/Pop from their group methods.
type GroupStack struct {
	ids []string
}

// Push records an opened group.
func (g *GroupStack) Push(id string) {
	g.ids = append(g.ids, id)
}

// Pop closes the innermost group. A mismatched or unbalanced EndGroup is
// logged and reported as false; the stack is still popped so that
// rendering can continue.
func (g *GroupStack) Pop(id string) bool {
	if len(g.ids) == 0 {
		logging.Logger().Warn("render: EndGroup without BeginGroup", "group", id)
		return false
	}
	top := g.ids[len(g.ids)-1]
	g.ids = g.ids[:len(g.ids)-1]
	if top != id {
		logging.Logger().Warn("render: group mismatch", "want", top, "got", id)
		return false
	}
	return true
}

// Depth returns the number of open groups.
func (g *GroupStack) Depth() int { return len(g.ids) }

// Current returns the innermost open group, or "".
func (g *GroupStack) Current() string {
	if len(g.ids) == 0 {
		return ""
	}
	return g.ids[len(g.ids)-1]
}
