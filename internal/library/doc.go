// Package library assembles catalogs from the configured backends.
//
// Each list runs its scanners in a fixed order and prefixes every category
// that contributed entries with a menu aggregate whose bulk reference covers
// exactly that category's entries.
package library
