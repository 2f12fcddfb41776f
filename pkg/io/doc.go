// Package io provides JSON interchange for the intermediate documents the
// CLI passes between pipeline stages: extraction fragments, reconciled
// borehole records, and cross-section layouts.
//
// Each document type has a Read/Write pair operating on io.Reader/io.Writer
// and an Import/Export pair operating on file paths. The formats round-trip:
// anything written by an Export function can be re-read by the matching
// Import function.
package io
