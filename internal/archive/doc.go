// Package archive defines the read-side contract the scene model consumes from
// an archive reader.
//
// # Overview
//
// An archive is a hierarchy of objects. Every object carries a Header (name,
// full path and Kind), an ordered list of children, optional user properties
// and, depending on its kind, a typed schema:
//
//	Kind        Schema
//	Xform       XformSchema
//	Mesh, SubD  ShapeSchema[MeshSample]
//	Points      ShapeSchema[PointsSample]
//	Curves      ShapeSchema[CurvesSample]
//	NuPatch     ShapeSchema[NuPatchSample]
//	Generic     none
//
// Each schema exposes its sample count, a TimeSampling mapping sample indices
// to times, and an indexed sample reader. Readers for concrete file formats
// implement Opener and are looked up by file extension through a Registry.
//
// Instanced objects report a non-empty InstanceSource naming the full path of
// the object they alias; they carry no schema of their own.
package archive
