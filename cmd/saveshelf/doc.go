// Package main hosts the saveshelf CLI.
//
// Each invocation loads the configuration, builds one catalog from the
// configured save roots and metadata databases, and renders it. Command lists
// are built on demand for the entry being shown.
package main
