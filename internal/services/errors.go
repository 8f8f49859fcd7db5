package services

import (
	"errors"
	"fmt"
	"strings"
)

// Error markers for catalog failures. Each one names the smallest unit that
// the failure is contained to.
var (
	// ErrSourceUnavailable marks a root path or database that cannot be opened.
	// Scanners treat it as zero contributions.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedRecord marks a single record or candidate that is skipped.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrMountFailed marks a protected container that could not be mounted.
	ErrMountFailed = errors.New("mount failed")
	// ErrFetchFailed marks a failed remote download.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrCatalogUnavailable marks a backend that has neither fresh nor cached data.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrMalformedManifest marks a manifest buffer bounds violation. It indicates a
	// parser defect rather than bad input.
	ErrMalformedManifest = errors.New("malformed manifest")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker so callers can classify it with errors.Is. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrSourceUnavailable
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Recoverable reports whether err belongs to a class that is contained to one
// record, entry, or backend and must not abort a catalog build.
func Recoverable(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrMalformedManifest):
		return false
	case errors.Is(err, ErrSourceUnavailable),
		errors.Is(err, ErrMalformedRecord),
		errors.Is(err, ErrMountFailed),
		errors.Is(err, ErrFetchFailed),
		errors.Is(err, ErrCatalogUnavailable):
		return true
	default:
		return false
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "catalog failure"
	}
	return strings.Join(parts, ": ")
}
