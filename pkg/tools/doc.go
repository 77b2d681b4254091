// Package tools maps model-issued tool calls onto travel operations. The
// tool set is a closed enum: every tool has a kind, a JSON schema for its
// arguments, and a typed handler, dispatched through an exhaustive switch so
// adding a tool without a handler fails to compile.
package tools
