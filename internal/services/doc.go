// Package services defines shared utilities consumed by the scanners, the
// command builder, and the catalog aggregator.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, backend names, and title keys
//     for logging.
//   - Error markers plus the Wrap helper that keep failures classifiable
//     (source unavailable, malformed record, mount failed, fetch failed) after
//     they pick up component context.
//
// Use these helpers when wiring new backends so containment rules stay uniform:
// a failure is confined to one record, one entry, or one backend, never the
// whole catalog.
package services
