// Package query selects scene nodes with boolean expressions.
//
// Predicates are compiled once with expr-lang/expr against Env and then run
// per node:
//
//	kind == "Mesh" && visible
//	under(path, "/car") && !instance
//	props.asset == "car_v3"
//	depth <= 2 && size > 10
package query
