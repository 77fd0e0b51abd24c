// Package section provides the ordered registry of navigable sections.
//
// A Registry is built once at startup, either from the built-in showcase
// defaults or from the configuration file, and is passed explicitly to the
// components that need it. It is immutable after construction.
package section
