// Package preflight provides readiness checks for the paths, databases and
// services saveshelf reads from.
//
// The CLI "saveshelf status" command runs RunAll and renders the results.
// Checks never modify anything; a failed check only explains why a backend
// will contribute no entries.
package preflight
