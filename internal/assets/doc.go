// Package assets provides the Typst preambles placed at the top of every
// rendered document. Preambles can be loaded from embedded files or from
// a custom directory.
//
// # Loader Architecture
//
//	PreambleLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in preambles (default, compact)
//	    ├── FilesystemLoader  - preambles from a custom directory
//	    └── Resolver          - custom first, embedded as fallback
//
// A preamble must define the admonition(kind:, title:, body) function
// used by rendered admonitions, and should enable heading numbering with
// the "1.1" pattern so printed numbers match cross-reference texts.
//
// # Directory Structure
//
//	{basePath}/
//	└── preambles/
//	    └── {name}.typ
//
// # Security
//
// Preamble names are validated to prevent path traversal.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
