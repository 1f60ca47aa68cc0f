package query

import (
	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/objpath"
	"github.com/vk/abcscene/internal/scene"
	"github.com/zclconf/go-cty/cty"
)

// Env is the view of one node a predicate evaluates against.
type Env struct {
	Path     string `expr:"path"`
	Name     string `expr:"name"`
	Kind     string `expr:"kind"`
	Depth    int    `expr:"depth"`
	Children int    `expr:"children"`
	Instance bool   `expr:"instance"`
	Master   string `expr:"master"`
	Visible  bool   `expr:"visible"`
	Locator  bool   `expr:"locator"`
	// Empty is true when the node's child bounds are empty.
	Empty bool `expr:"empty"`
	// Size is the diagonal length of the node's child bounds, 0 when empty.
	Size float64 `expr:"size"`
	// Props holds the node's user properties at the query time.
	Props map[string]any `expr:"props"`
}

// EnvFor builds the environment of n, reading user properties at t. Bounds
// reflect the node's last update.
func EnvFor(n *scene.Node, t float64) Env {
	e := Env{
		Path:     n.Path(),
		Name:     n.Name(),
		Kind:     n.Kind().String(),
		Children: n.NumChildren(),
		Instance: n.IsInstance(),
		Master:   n.MasterPath(),
		Visible:  n.IsVisible(true),
		Locator:  n.IsLocator(),
		Props:    map[string]any{},
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		e.Depth++
	}
	b := n.ChildBounds()
	e.Empty = b.IsEmpty()
	if !e.Empty {
		e.Size = b.Size().Len()
	}

	n.UpdateUserProperties(t, t, false)
	if w := n.UserProperties(); w != nil {
		if prev, _, _ := w.GetSamples(t); prev != nil && prev.Valid {
			e.Props = propsToGo(prev.Data)
		}
	}
	return e
}

func propsToGo(props archive.Properties) map[string]any {
	out := make(map[string]any, len(props))
	for _, p := range props {
		out[p.Name] = ctyToGo(p.Value)
	}
	return out
}

// ctyToGo converts a known cty value into plain Go values expr can compare.
func ctyToGo(v cty.Value) any {
	if v.IsNull() || !v.IsKnown() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty.Equals(cty.String):
		return v.AsString()
	case ty.Equals(cty.Bool):
		return v.True()
	case ty.Equals(cty.Number):
		f, _ := v.AsBigFloat().Float64()
		return f
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			out = append(out, ctyToGo(ev))
		}
		return out
	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			out[k.AsString()] = ctyToGo(ev)
		}
		return out
	}
	return nil
}

// under reports whether path is prefix or lies below it.
func under(path, prefix string) bool {
	return path == prefix || objpath.IsAncestor(prefix, path)
}
