package query

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/vk/abcscene/internal/scene"
)

// Predicate is a compiled node selection expression.
type Predicate struct {
	source  string
	program *vm.Program
}

func options() []expr.Option {
	return []expr.Option{
		expr.Env(Env{}),
		expr.AsBool(),
		expr.Function("under", func(params ...any) (any, error) {
			return under(params[0].(string), params[1].(string)), nil
		},
			new(func(string, string) bool)),
	}
}

// Compile compiles a predicate. An empty source matches every node.
func Compile(source string) (*Predicate, error) {
	if source == "" {
		source = "true"
	}
	prg, err := expr.Compile(source, options()...)
	if err != nil {
		return nil, fmt.Errorf("compiling predicate %q: %w", source, err)
	}
	return &Predicate{source: source, program: prg}, nil
}

// String returns the predicate source.
func (p *Predicate) String() string { return p.source }

// Eval runs the predicate against env.
func (p *Predicate) Eval(env Env) (bool, error) {
	res, err := expr.Run(p.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating predicate %q on %s: %w", p.source, env.Path, err)
	}
	ok, _ := res.(bool)
	return ok, nil
}

// Match runs the predicate against n at time t.
func (p *Predicate) Match(n *scene.Node, t float64) (bool, error) {
	return p.Eval(EnvFor(n, t))
}

// Select returns the nodes of s matching p at t in pre-order. The root is
// never selected.
func Select(s *scene.Scene, p *Predicate, t float64) ([]*scene.Node, error) {
	var out []*scene.Node
	for _, n := range s.Nodes() {
		if n.Parent() == nil {
			continue
		}
		ok, err := p.Match(n, t)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, n)
		}
	}
	return out, nil
}
