package hclarchive

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/abcscene/internal/geom"
)

// decoder accumulates diagnostics while walking a document.
type decoder struct {
	diags hcl.Diagnostics
}

func (d *decoder) errorf(subject hcl.Range, summary, format string, args ...any) {
	d.diags = append(d.diags, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   fmt.Sprintf(format, args...),
		Subject:  subject.Ptr(),
	})
}

// decodeBody decodes body into the tagged struct val.
func (d *decoder) decodeBody(body hcl.Body, val any) bool {
	diags := gohcl.DecodeBody(body, nil, val)
	d.diags = append(d.diags, diags...)
	return !diags.HasErrors()
}

// present reports whether an optional expression was set. gohcl fills
// absent expression fields with a static null.
func present(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	v, diags := expr.Value(nil)
	return diags.HasErrors() || !v.IsNull()
}

// decodeExpr decodes an optional expression into out, reporting false when
// it is absent or invalid.
func (d *decoder) decodeExpr(expr hcl.Expression, out any) bool {
	if !present(expr) {
		return false
	}
	diags := gohcl.DecodeExpression(expr, nil, out)
	d.diags = append(d.diags, diags...)
	return !diags.HasErrors()
}

func (d *decoder) vec3(expr hcl.Expression, name string, def geom.Vector3) geom.Vector3 {
	var v []float64
	if !d.decodeExpr(expr, &v) {
		return def
	}
	if len(v) != 3 {
		d.errorf(expr.Range(), "Invalid vector", "Attribute %q needs 3 components, got %d.", name, len(v))
		return def
	}
	return geom.Vec3(v[0], v[1], v[2])
}

func (d *decoder) vec3s(expr hcl.Expression, name string) []geom.Vector3 {
	var raw [][]float64
	if !d.decodeExpr(expr, &raw) {
		return nil
	}
	out := make([]geom.Vector3, len(raw))
	for i, v := range raw {
		if len(v) != 3 {
			d.errorf(expr.Range(), "Invalid vector", "Element %d of %q needs 3 components, got %d.", i, name, len(v))
			return nil
		}
		out[i] = geom.Vec3(v[0], v[1], v[2])
	}
	return out
}

func (d *decoder) matrix(expr hcl.Expression) (geom.Matrix4, bool) {
	var v []float64
	if !d.decodeExpr(expr, &v) {
		return geom.Identity4(), false
	}
	m, ok := geom.Matrix4FromSlice(v)
	if !ok {
		d.errorf(expr.Range(), "Invalid matrix", "Attribute %q needs 16 numbers, got %d.", "matrix", len(v))
		return geom.Identity4(), false
	}
	return m, true
}
