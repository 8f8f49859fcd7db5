// Package sfo reads PARAM.SFO metadata blocks.
//
// A block is a 20-byte header, an index of 16-byte entries, a key table of
// NUL-terminated names and a data table. Values are returned as raw bytes;
// String and Uint64 interpret them the way save metadata uses them.
package sfo
