// Package commands builds the action list of a catalog entry on demand.
//
// Each entry kind has its own small builder returning an ordered fragment of
// commands. Build runs at most once per entry; the resulting list is attached
// with catalog.Entry.SetCommands. Failures that only affect one entry, such as
// a container that will not mount, produce a single informational command
// instead of an error so the entry stays visible.
package commands
