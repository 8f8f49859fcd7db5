// Package appdb reads the console's indexed metadata stores: the application
// database (installed titles and their save directories) and the trophy
// database. Both are opened read-only and must be closed by the caller before
// it hands control to another component.
package appdb
