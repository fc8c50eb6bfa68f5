// Package api defines the vendor-agnostic data model for modelmux:
// messages, content parts, generation requests and responses, token usage,
// and streaming events. All vendor adapters translate to and from these
// types; nothing in this package performs I/O.
package api
