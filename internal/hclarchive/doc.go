// Package hclarchive reads scene archives written as HCL documents.
//
// # Format
//
// Objects are blocks labelled with their local name and nest to form the
// hierarchy. Block order is archive order.
//
//	xform "car" {
//	  times = [0, 1]            # acyclic; or start/step (uniform), or cycle + times
//	  sample { translate = [0, 0, 0] }
//	  sample {
//	    translate = [1, 0, 0]
//	    inherits  = true
//	  }
//
//	  mesh "body" {
//	    visibility = "visible"  # or a list, one entry per sample
//	    sample {
//	      positions    = [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
//	      face_counts  = [3]
//	      face_indices = [0, 1, 2]
//	    }
//	    param "Cd" {
//	      scope = "vertex"
//	      value = [0.5, 0.5, 0.5]
//	    }
//	  }
//	  user "asset" { value = "car_v3" }
//	}
//
//	instance "car2" { source = "/car" }
//
// Object block types are object (generic), xform, mesh, subd, points,
// curves, nupatch and instance. Transforms take a matrix (16 numbers, row
// major) or translate and scale per sample, and locator blocks holding
// position and scale. Shapes take optional bounds blocks, one per sample;
// without them bounds are derived from the sample positions.
//
// Documents are parsed with hclparse and each object body is decoded with
// gohcl into a tagged struct. Child objects are collected from the struct's
// remain body against a block schema, which keeps their document order.
package hclarchive
