// Package graph provides the wire format for term maps and reduction graphs.
//
// A [Layout] is the document handed to the rendering collaborator, stored by
// the CLI and served by the HTTP API. It is a flat list of elements in the
// shape graph-drawing front ends consume directly:
//
//	{
//	  "group": "nodes",
//	  "data": {"id": "λx", "type": "abs-node", "label": "λx"},
//	  "position": {"x": -60, "y": -60},
//	  "classes": "beta-0"
//	}
//
// # Conversion
//
//   - [FromMap] converts a *termmap.Map. Node types are the map's wire names
//     ("abs-node", "app-midpoint", ...) and classes are the redex classes, so
//     a front end can highlight a redex by class. Redexes also list their
//     element ids explicitly.
//   - [FromReduction] places a *reduction.Graph in level bands and converts
//     it. Vertex ids are the structural term keys and edge ids follow
//     "source-b->@path-b->target".
//
// Documents carry their statistics: term measurements for maps, path
// statistics for reduction graphs.
//
// # Serialization
//
// [Marshal], [Write] and [WriteFile] emit indented JSON. [Unmarshal], [Read]
// and [ReadFile] decode and [Validate] the result, rejecting unknown kinds,
// duplicate ids and dangling edges with INVALID_FORMAT errors.
//
// Struct tags also carry bson names so documents can be stored as-is in
// MongoDB.
package graph
