package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"saveshelf/internal/appdb"
	"saveshelf/internal/catalog"
	"saveshelf/internal/services"
	"saveshelf/internal/sfo"
)

// Details renders the human-readable description of entry, reading its
// metadata block or database row as needed. Local protected saves are mounted
// for the duration of the read.
func (b *Builder) Details(ctx context.Context, entry *catalog.Entry) (string, error) {
	switch {
	case entry.Kind() == catalog.KindTrophySet:
		return trophyDetails(ctx, entry)
	case entry.Kind() != catalog.KindSave:
		return fmt.Sprintf("%s\n\nTitle: %s\n", entry.Location, entry.Name), nil
	case entry.Has(catalog.FlagPSP):
		return pspDetails(entry)
	case !entry.Has(catalog.FlagPSV):
		return fmt.Sprintf("%s\n\nTitle: %s\n", entry.Location, entry.Name), nil
	case entry.Has(catalog.FlagLocked):
		return lockedDetails(entry), nil
	default:
		return b.vitaDetails(ctx, entry)
	}
}

func pspDetails(entry *catalog.Entry) (string, error) {
	meta, err := sfo.ParseFile(filepath.Join(entry.Location, "PARAM.SFO"))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n----- PSP Save -----\n", entry.Location)
	fmt.Fprintf(&sb, "Game: %s\n", entry.Name)
	fmt.Fprintf(&sb, "Title ID: %s\n", entry.TitleKey())
	fmt.Fprintf(&sb, "Folder: %s\n", entry.DirectoryKey)
	fmt.Fprintf(&sb, "Title: %s\n", meta.String(sfo.KeySavedataTitle))
	fmt.Fprintf(&sb, "Details: %s\n", meta.String(sfo.KeySavedataDetail))
	return sb.String(), nil
}

// lockedDetails describes an encrypted save. The owning account is the name
// of the directory above the title directory.
func lockedDetails(entry *catalog.Entry) string {
	account := filepath.Base(filepath.Dir(entry.Location))
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", entry.Location)
	fmt.Fprintf(&sb, "Title ID: %s\n", entry.TitleKey())
	fmt.Fprintf(&sb, "Dir Name: %s\n", entry.DirectoryKey)
	fmt.Fprintf(&sb, "Blocks: %d\n", entry.NumericTag)
	fmt.Fprintf(&sb, "Account ID: %.16s\n", account)
	return sb.String()
}

func trophyDetails(ctx context.Context, entry *catalog.Entry) (string, error) {
	db, err := appdb.Open(ctx, entry.Location)
	if err != nil {
		return "", err
	}
	detail, err := db.TrophyTitleDetail(ctx, entry.NumericTag)
	_ = db.Close()
	if err != nil {
		return "", err
	}

	grade := func(g catalog.Glyph) string { return string([]byte{byte(g)}) }
	var sb strings.Builder
	sb.WriteString("Trophy-Set Details\n\n")
	fmt.Fprintf(&sb, "Title: %s\n", entry.Name)
	fmt.Fprintf(&sb, "Description: %s\n", detail.Description)
	fmt.Fprintf(&sb, "NP Comm ID: %s\n", entry.DirectoryKey)
	fmt.Fprintf(&sb, "Progress: %d/%d - %d%%\n", detail.Unlocked, detail.Total, detail.Progress)
	fmt.Fprintf(&sb, "%s Platinum: %d/%d\n", grade(catalog.GlyphPlatinum), detail.Platinum.Unlocked, detail.Platinum.Total)
	fmt.Fprintf(&sb, "%s Gold: %d/%d\n", grade(catalog.GlyphGold), detail.Gold.Unlocked, detail.Gold.Total)
	fmt.Fprintf(&sb, "%s Silver: %d/%d\n", grade(catalog.GlyphSilver), detail.Silver.Unlocked, detail.Silver.Total)
	fmt.Fprintf(&sb, "%s Bronze: %d/%d\n", grade(catalog.GlyphBronze), detail.Bronze.Unlocked, detail.Bronze.Total)
	return sb.String(), nil
}

func (b *Builder) vitaDetails(ctx context.Context, entry *catalog.Entry) (string, error) {
	root := entry.Location
	if needsMount(entry) {
		if b.mount == nil {
			return "", services.Wrap(services.ErrMountFailed, "commands", "details", "no mount manager", nil)
		}
		h, err := b.mount.Acquire(ctx, entry.DirectoryKey)
		if err != nil {
			return "", err
		}
		defer func() { _ = h.Release(ctx) }()
		root = string(h.Point())
	}

	meta, err := sfo.ParseFile(filepath.Join(root, "sce_sys", "param.sfo"))
	if err != nil {
		return "", err
	}
	account, _ := meta.AccountID()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n----- Save -----\n", entry.Location)
	fmt.Fprintf(&sb, "Title: %s\n", entry.Name)
	fmt.Fprintf(&sb, "Title ID: %s\n", entry.TitleKey())
	fmt.Fprintf(&sb, "Dir Name: %s\n", entry.DirectoryKey)
	fmt.Fprintf(&sb, "Account ID: %016x\n", account)
	return sb.String(), nil
}
