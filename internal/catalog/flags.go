package catalog

import "strings"

// Flags describes where an entry comes from and what it is. Flags are fixed
// when the entry is created.
type Flags uint16

const (
	FlagPSV Flags = 1 << iota
	FlagPSP
	FlagOwner
	FlagLocked
	FlagRemovable
	FlagLocal
	FlagRemote
	FlagAggregate
	FlagTrophy
	FlagArchive
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagPSV, "psv"},
	{FlagPSP, "psp"},
	{FlagOwner, "owner"},
	{FlagLocked, "locked"},
	{FlagRemovable, "removable"},
	{FlagLocal, "local"},
	{FlagRemote, "remote"},
	{FlagAggregate, "aggregate"},
	{FlagTrophy, "trophy"},
	{FlagArchive, "archive"},
}

// Has reports whether every bit in mask is set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	parts := make([]string, 0, 4)
	for _, item := range flagNames {
		if f&item.flag != 0 {
			parts = append(parts, item.name)
		}
	}
	return strings.Join(parts, "|")
}

// Kind discriminates entry variants.
type Kind uint8

const (
	KindSave Kind = iota + 1
	KindTrophySet
	KindArchiveBackup
	KindMenuAggregate
	KindOnlineOffering
)

func (k Kind) String() string {
	switch k {
	case KindSave:
		return "save"
	case KindTrophySet:
		return "trophy_set"
	case KindArchiveBackup:
		return "archive"
	case KindMenuAggregate:
		return "menu"
	case KindOnlineOffering:
		return "online"
	default:
		return "unknown"
	}
}
