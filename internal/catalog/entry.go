package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// MaxTitleKeyLen bounds title keys, which double as cache file names.
const MaxTitleKeyLen = 9

var (
	// ErrBuildAlreadyDone is returned when commands are set twice on one entry.
	ErrBuildAlreadyDone = errors.New("commands already built")
	// ErrInvalidTitleKey marks a title key that is too long, non-ASCII or not path safe.
	ErrInvalidTitleKey = errors.New("invalid title key")
)

// Entry is one browsable artifact.
type Entry struct {
	Name         string
	Location     string
	DirectoryKey string
	// NumericTag is a storage block count for saves and a row id for trophy sets.
	NumericTag int64
	// Bulk is set on menu aggregates only and is never owned.
	Bulk *BulkRef

	kind     Kind
	flags    Flags
	titleKey string
	commands []*Command
	built    bool
}

// NewEntry creates an entry after validating its title key. Menu aggregates
// and loose archives may use an empty key.
func NewEntry(kind Kind, flags Flags, name, titleKey string) (*Entry, error) {
	if titleKey != "" || (kind != KindMenuAggregate && kind != KindArchiveBackup) {
		if err := ValidateTitleKey(titleKey); err != nil {
			return nil, err
		}
	}
	return &Entry{Name: name, kind: kind, flags: flags, titleKey: titleKey}, nil
}

// ValidateTitleKey checks the constraints that make a key safe to use as a file
// name component.
func ValidateTitleKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTitleKey)
	}
	if len(key) > MaxTitleKeyLen {
		return fmt.Errorf("%w: %q longer than %d", ErrInvalidTitleKey, key, MaxTitleKeyLen)
	}
	if key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidTitleKey, key)
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c <= ' ' || c >= 0x7f || strings.IndexByte(`/\:*?"<>|`, c) >= 0 {
			return fmt.Errorf("%w: %q", ErrInvalidTitleKey, key)
		}
	}
	return nil
}

func (e *Entry) Kind() Kind { return e.kind }

func (e *Entry) Flags() Flags { return e.flags }

func (e *Entry) TitleKey() string { return e.titleKey }

// Has reports whether the entry carries every flag in mask.
func (e *Entry) Has(mask Flags) bool { return e.flags.Has(mask) }

// Built reports whether a command list has been attached.
func (e *Entry) Built() bool { return e.built }

// Commands returns the command list. The boolean is false until SetCommands
// succeeds.
func (e *Entry) Commands() ([]*Command, bool) {
	if !e.built {
		return nil, false
	}
	return e.commands, true
}

// SetCommands attaches the command list. It succeeds once per entry; an empty
// or nil list still marks the entry as built.
func (e *Entry) SetCommands(commands []*Command) error {
	if e.built {
		return fmt.Errorf("%w: %s %q", ErrBuildAlreadyDone, e.kind, e.Name)
	}
	if commands == nil {
		commands = []*Command{}
	}
	e.commands = commands
	e.built = true
	return nil
}
