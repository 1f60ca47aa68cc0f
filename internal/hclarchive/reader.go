package hclarchive

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/abcscene/internal/archive"
	"github.com/vk/abcscene/internal/ctxlog"
	"github.com/vk/abcscene/internal/memarchive"
	"github.com/vk/abcscene/internal/objpath"
)

// Extensions are the file suffixes the reader registers for.
var Extensions = []string{".abc.hcl", ".hcl"}

// Register adds the reader to r under Extensions.
func Register(r *archive.Registry) {
	for _, ext := range Extensions {
		r.Register(ext, archive.OpenerFunc(Open))
	}
}

// Open reads and parses the document at path.
func Open(ctx context.Context, path string) (archive.Archive, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	a, err := Parse(ctx, src, path)
	if err != nil {
		return nil, err
	}
	return a, nil
}

const instanceBlock = "instance"

// objectSchema lists the block types that declare objects. Bodies that hold
// child objects are read against it so children keep document order.
var objectSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "object", LabelNames: []string{"name"}},
		{Type: "xform", LabelNames: []string{"name"}},
		{Type: "mesh", LabelNames: []string{"name"}},
		{Type: "subd", LabelNames: []string{"name"}},
		{Type: "points", LabelNames: []string{"name"}},
		{Type: "curves", LabelNames: []string{"name"}},
		{Type: "nupatch", LabelNames: []string{"name"}},
		{Type: instanceBlock, LabelNames: []string{"name"}},
	},
}

// Parse builds an archive named filename from an HCL document.
func Parse(ctx context.Context, src []byte, filename string) (*memarchive.Archive, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing HCL archive.", "file", filename, "bytes", len(src))

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL archive %s: %w", filename, diags)
	}

	a := memarchive.New(filename)
	d := &decoder{}
	d.children(a.Top(), file.Body)
	if d.diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL archive %s: %w", filename, d.diags)
	}
	logger.Debug("Parsed HCL archive.", "file", filename, "top_level_objects", a.Top().NumChildren())
	return a, nil
}

// children decodes the object blocks left in body under parent, in order.
func (d *decoder) children(parent *memarchive.Object, body hcl.Body) {
	content, diags := body.Content(objectSchema)
	d.diags = append(d.diags, diags...)
	for _, blk := range content.Blocks {
		d.object(parent, blk)
	}
}

// object decodes one object block and its descendants under parent.
func (d *decoder) object(parent *memarchive.Object, blk *hcl.Block) {
	name := blk.Labels[0]
	if _, err := objpath.Parse(objpath.Join(parent.Header().FullName, name)); err != nil {
		d.errorf(blk.LabelRanges[0], "Invalid object name", "%s", err)
		return
	}

	var (
		obj   *memarchive.Object
		users []*propertyBlock
		rest  hcl.Body
	)
	switch blk.Type {
	case instanceBlock:
		var b instanceBody
		if !d.decodeBody(blk.Body, &b) {
			return
		}
		var source string
		if !d.decodeExpr(b.Source, &source) {
			return
		}
		if _, err := objpath.Parse(source); err != nil {
			d.errorf(b.Source.Range(), "Invalid instance source", "%s", err)
			return
		}
		parent.AddInstance(name, source)
		return
	case "object":
		var b objectBody
		if !d.decodeBody(blk.Body, &b) {
			return
		}
		obj, users, rest = parent.AddGeneric(name), b.Users, b.Remain
	case "xform":
		var b xformBody
		if !d.decodeBody(blk.Body, &b) {
			return
		}
		ts := d.timeSampling(blk.DefRange, b.timing())
		obj, users, rest = parent.AddXform(name, d.xform(&b, ts)), b.Users, b.Remain
	case "mesh":
		sh, b, ok := shape(d, blk, (*decoder).meshSample)
		if !ok {
			return
		}
		obj, users, rest = parent.AddMesh(name, sh), b.Users, b.Remain
	case "subd":
		sh, b, ok := shape(d, blk, (*decoder).meshSample)
		if !ok {
			return
		}
		obj, users, rest = parent.AddSubD(name, sh), b.Users, b.Remain
	case "points":
		sh, b, ok := shape(d, blk, (*decoder).pointsSample)
		if !ok {
			return
		}
		obj, users, rest = parent.AddPoints(name, sh), b.Users, b.Remain
	case "curves":
		sh, b, ok := shape(d, blk, (*decoder).curvesSample)
		if !ok {
			return
		}
		obj, users, rest = parent.AddCurves(name, sh), b.Users, b.Remain
	case "nupatch":
		sh, b, ok := shape(d, blk, (*decoder).nuPatchSample)
		if !ok {
			return
		}
		obj, users, rest = parent.AddNuPatch(name, sh), b.Users, b.Remain
	}

	if props := d.properties(users); len(props) > 0 {
		obj.SetUserProperties(memarchive.Constant(props))
	}
	d.children(obj, rest)
}

// timing holds the time sampling attributes shared by xform and shape
// bodies.
type timing struct {
	start, step *float64
	times       hcl.Expression
	cycle       *float64
}

// timeSampling builds an object's time sampling, defaulting to one sample
// per unit time from 0.
func (d *decoder) timeSampling(def hcl.Range, t timing) *archive.TimeSampling {
	if !present(t.times) {
		if t.cycle != nil {
			d.errorf(def, "Missing times", "A cycle needs a times list.")
		}
		start, step := 0.0, 1.0
		if t.start != nil {
			start = *t.start
		}
		if t.step != nil {
			step = *t.step
		}
		return archive.NewUniform(start, step)
	}
	if t.start != nil {
		d.errorf(t.times.Range(), "Conflicting time sampling", "%q cannot be combined with times.", "start")
	}
	if t.step != nil {
		d.errorf(t.times.Range(), "Conflicting time sampling", "%q cannot be combined with times.", "step")
	}
	var times []float64
	if !d.decodeExpr(t.times, &times) {
		return archive.NewUniform(0, 1)
	}
	var ts *archive.TimeSampling
	var err error
	if t.cycle != nil {
		ts, err = archive.NewCyclic(*t.cycle, times)
	} else {
		ts, err = archive.NewAcyclic(times)
	}
	if err != nil {
		d.errorf(t.times.Range(), "Invalid time sampling", "%s", err)
		return archive.NewUniform(0, 1)
	}
	return ts
}

// parseVisibility parses a visibility keyword.
func parseVisibility(s string) (archive.Visibility, bool) {
	switch s {
	case "deferred":
		return archive.VisibilityDeferred, true
	case "hidden":
		return archive.VisibilityHidden, true
	case "visible":
		return archive.VisibilityVisible, true
	}
	return 0, false
}
