package archive

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Scope tells how a geometry parameter maps onto the geometry.
type Scope int

const (
	ScopeUnknown Scope = iota
	ScopeConstant
	ScopeUniform
	ScopeVarying
	ScopeVertex
	ScopeFaceVarying
)

var scopeNames = [...]string{
	ScopeUnknown:     "unknown",
	ScopeConstant:    "constant",
	ScopeUniform:     "uniform",
	ScopeVarying:     "varying",
	ScopeVertex:      "vertex",
	ScopeFaceVarying: "facevarying",
}

func (s Scope) String() string {
	if s < 0 || int(s) >= len(scopeNames) {
		return "unknown"
	}
	return scopeNames[s]
}

// ParseScope returns the scope with the given case-insensitive name.
func ParseScope(name string) (Scope, bool) {
	for s, n := range scopeNames {
		if strings.EqualFold(n, name) {
			return Scope(s), true
		}
	}
	return ScopeUnknown, false
}

// Property is one named entry of a user property or geometry parameter
// compound. Value carries the typed payload; Indices, when set, index into
// Value's elements.
type Property struct {
	Name    string
	Scope   Scope
	Value   cty.Value
	Indices []uint32
}

// Indexed reports whether the property stores its values through an index list.
func (p Property) Indexed() bool {
	return len(p.Indices) > 0
}

// Expanded resolves an indexed property to the flat value sequence. Properties
// without indices are returned unchanged.
func (p Property) Expanded() (cty.Value, error) {
	if !p.Indexed() {
		return p.Value, nil
	}
	if p.Value.IsNull() || !p.Value.IsKnown() || !p.Value.CanIterateElements() {
		return cty.NilVal, fmt.Errorf("property %q: indexed value must be a known sequence", p.Name)
	}
	elems := p.Value.AsValueSlice()
	out := make([]cty.Value, 0, len(p.Indices))
	for _, idx := range p.Indices {
		if int(idx) >= len(elems) {
			return cty.NilVal, fmt.Errorf("property %q: index %d out of range (%d values)", p.Name, idx, len(elems))
		}
		out = append(out, elems[idx])
	}
	ty := p.Value.Type()
	switch {
	case ty.IsListType() && len(out) == 0:
		return cty.ListValEmpty(ty.ElementType()), nil
	case ty.IsListType():
		return cty.ListVal(out), nil
	case len(out) == 0:
		return cty.EmptyTupleVal, nil
	}
	return cty.TupleVal(out), nil
}

// Properties is an ordered property compound.
type Properties []Property

// Get returns the property with the given name.
func (ps Properties) Get(name string) (Property, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Names returns the property names in order.
func (ps Properties) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}
