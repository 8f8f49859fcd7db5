// Package scan turns one backend root into catalog entries.
//
// Every scanner shares one contract: a root that cannot be opened yields no
// entries and is logged as an unavailable source, and a single unreadable or
// malformed candidate is skipped without affecting its siblings. Entries are
// returned in directory or row iteration order.
package scan
