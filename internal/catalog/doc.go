// Package catalog defines the browsable save catalog: entries, the commands
// attached to them and the options attached to commands.
//
// Ownership is tree shaped. A Catalog owns its entries, an Entry owns its
// command list and a Command owns its options. Menu aggregate entries refer
// back to the catalog through a BulkRef, which is never followed during
// Release.
package catalog
