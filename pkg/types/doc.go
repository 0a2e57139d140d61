// Package types defines the document model shared by the json2ansi packages:
// styles and style references, text nodes, scaffold nodes (indent, table,
// line break), column sizing, and the laid-out lines handed to a renderer.
//
// Text nodes, scaffold nodes, sizes and style references are closed sum
// types: each is an interface with an unexported marker method, implemented
// only by the variants declared in this package.
package types
