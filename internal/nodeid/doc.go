// internal/nodeid/doc.go

/*
Package nodeid provides a structured, type-safe representation for the
unique identifiers of project nodes.

The canonical format is a dot-separated sequence of segments that starts
with the resource type and the owning package, followed by the node's
name segments, e.g. `model.shop.model_a` or `source.shop.my_src.my_tbl`.

Short references, as written by users in project files, omit the package:
`model.model_a`, `source.my_src.my_tbl`. Qualify expands them against the
package that declares the reference.

This package centralizes all formatting and parsing of identifiers, along
with the Set type used by every selection stage.
*/
package nodeid
