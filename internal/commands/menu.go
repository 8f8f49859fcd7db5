package commands

import (
	"fmt"

	"saveshelf/internal/catalog"
)

// menuCommands returns the bulk actions of a menu aggregate. The storage flag
// on the aggregate selects the set.
func (b *Builder) menuCommands(entry *catalog.Entry) []*catalog.Command {
	switch {
	case entry.Has(catalog.FlagArchive):
		return []*catalog.Command{
			catalog.NewAction(catalog.GlyphZip, "Extract Archives (RAR, Zip, 7z)", catalog.OpExtractAllArchives).
				WithPayload([]byte(entry.Location)),
		}
	case entry.Has(catalog.FlagRemovable):
		return []*catalog.Command{
			catalog.NewAction(catalog.GlyphSign, "Resign selected Saves", catalog.OpResignSelected),
			catalog.NewAction(catalog.GlyphSign, "Resign all decrypted Saves", catalog.OpResignAll),
			catalog.NewAction(catalog.GlyphCopy, fmt.Sprintf("Copy selected Saves to User Storage (%s)", b.dest.UserSavesDir), catalog.OpCopySelectedLocal),
			catalog.NewAction(catalog.GlyphCopy, fmt.Sprintf("Copy all decrypted Saves to User Storage (%s)", b.dest.UserSavesDir), catalog.OpCopyAllLocal),
			catalog.NewAction(catalog.GlyphCopy, "Start local Web Server", catalog.OpRunWebServer),
			catalog.NewAction(catalog.GlyphLock, "Dump all decrypted Save Fingerprints", catalog.OpDumpFingerprints),
		}
	default:
		return []*catalog.Command{
			catalog.NewAction(catalog.GlyphCopy, "Copy selected Saves to Backup Storage", catalog.OpNone).
				WithOptions(b.removableOptions("Copy Saves to Backup Storage", catalog.OpCopySelectedRemovable)...),
			catalog.NewAction(catalog.GlyphCopy, "Copy all Saves to Backup Storage", catalog.OpNone).
				WithOptions(b.removableOptions("Copy Saves to Backup Storage", catalog.OpCopyAllRemovable)...),
			catalog.NewAction(catalog.GlyphCopy, "Start local Web Server", catalog.OpRunWebServer),
			catalog.NewAction(catalog.GlyphLock, "Dump all Save Fingerprints", catalog.OpDumpFingerprints),
		}
	}
}
