package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"saveshelf/internal/catalog"
	"saveshelf/internal/fileutil"
	"saveshelf/internal/logging"
	"saveshelf/internal/patch"
)

// MountFailedNotice is the text of the row shown for an unmountable save.
const MountFailedNotice = "Error Mounting Save! Check Save Mount Patches"

// needsMount reports whether entry is a protected container on local storage.
func needsMount(entry *catalog.Entry) bool {
	return entry.Has(catalog.FlagPSV|catalog.FlagLocal) && !entry.Has(catalog.FlagLocked)
}

func (b *Builder) saveCommands(ctx context.Context, entry *catalog.Entry) []*catalog.Command {
	logger := logging.WithContext(ctx, b.logger)
	root := entry.Location

	if needsMount(entry) {
		if b.mount == nil {
			logging.WarnWithContext(logger, "no mount manager for protected save", "mount_unavailable",
				logging.String("container", entry.DirectoryKey),
				logging.String(logging.FieldImpact, "save listed without actions"),
			)
			return []*catalog.Command{warning(MountFailedNotice)}
		}
		h, err := b.mount.Acquire(ctx, entry.DirectoryKey)
		if err != nil {
			logging.WarnWithContext(logger, "save mount failed", "mount_failed",
				logging.String("container", entry.DirectoryKey),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check mount.helper and mount.profiles"),
				logging.String(logging.FieldImpact, "save listed without actions"),
			)
			return []*catalog.Command{warning(MountFailedNotice)}
		}
		defer func() { _ = h.Release(ctx) }()
		root = string(h.Point())
	}

	cmds := saveProlog()
	cmds = append(cmds, b.backupGroup(entry, root)...)
	if entry.Has(catalog.FlagPSP) {
		cmds = append(cmds, gameKeyGroup()...)
	} else {
		cmds = append(cmds, keystoneGroup()...)
	}
	cmds = append(cmds, b.cheatsGroup(ctx, entry, root)...)
	return cmds
}

func saveProlog() []*catalog.Command {
	return []*catalog.Command{
		catalog.NewAction(catalog.GlyphSign, "Apply Changes & Resign", catalog.OpResignSave),
		catalog.NewAction(catalog.GlyphUser, "View Save Details", catalog.OpViewDetails),
	}
}

func (b *Builder) backupGroup(entry *catalog.Entry, root string) []*catalog.Command {
	userDir := b.dest.UserSavesDir
	if entry.Has(catalog.FlagPSP) {
		userDir = b.dest.PSPSavesDir
	}

	copySave := catalog.NewAction(catalog.GlyphCopy, "Copy save game", catalog.OpNone).
		WithOptions(b.removableOptions("Copy Save to Backup Storage", catalog.OpCopySaveRemovable)...).
		WithOptions(catalog.NewOption(fmt.Sprintf("Copy Save to User Storage (%s)", userDir), byte(catalog.OpCopySaveLocal)))

	exportZip := catalog.NewAction(catalog.GlyphZip, "Export save game to Zip", catalog.OpNone).
		WithOptions(b.removableOptions("Export Zip to Backup Storage", catalog.OpExportZipRemovable)...).
		WithOptions(catalog.NewOption(fmt.Sprintf("Export Zip to User Storage (%s)", b.dest.ArchiveDir), byte(catalog.OpExportZipLocal)))

	exportFiles := catalog.NewAction(catalog.GlyphCopy, "Export decrypted save files", catalog.OpNone).
		WithOptions(FileOptions(root, "*", catalog.OpDecryptFile)...)

	importFiles := catalog.NewAction(catalog.GlyphCopy, "Import decrypted save files", catalog.OpNone).
		WithOptions(FileOptions(root, "*", catalog.OpImportFile)...)

	return []*catalog.Command{
		catalog.NewSeparator("File Backup"),
		copySave,
		exportZip,
		exportFiles,
		importFiles,
	}
}

// removableOptions returns one option per removable root carrying op and the
// root index.
func (b *Builder) removableOptions(label string, op catalog.Opcode) []*catalog.Option {
	options := make([]*catalog.Option, 0, len(b.dest.RemovableRoots))
	for i, root := range b.dest.RemovableRoots {
		options = append(options, catalog.NewOption(fmt.Sprintf("%s (%s)", label, root), byte(op), byte(i)))
	}
	return options
}

func keystoneGroup() []*catalog.Command {
	return []*catalog.Command{
		catalog.NewSeparator("Keystone Backup"),
		catalog.NewAction(catalog.GlyphLock, "Export Keystone", catalog.OpExportKeystone),
		catalog.NewAction(catalog.GlyphLock, "Import Keystone", catalog.OpImportKeystone),
		catalog.NewAction(catalog.GlyphLock, "Dump save Fingerprint", catalog.OpDumpFingerprint),
	}
}

func gameKeyGroup() []*catalog.Command {
	return []*catalog.Command{
		catalog.NewSeparator("Game Key Backup"),
		catalog.NewAction(catalog.GlyphLock, "Export binary Game Key", catalog.OpExportGameKey),
		catalog.NewAction(catalog.GlyphLock, "Dump Game Key fingerprint", catalog.OpDumpGameKey),
	}
}

// PatchPath returns the patch script location for titleKey.
func PatchPath(patchDir, titleKey string) string {
	return filepath.Join(patchDir, titleKey+patch.Extension)
}

func (b *Builder) cheatsGroup(ctx context.Context, entry *catalog.Entry, root string) []*catalog.Command {
	if b.patchDir == "" || entry.TitleKey() == "" {
		return nil
	}
	path := PatchPath(b.patchDir, entry.TitleKey())
	if !fileutil.FileExists(path) {
		return nil
	}
	logger := logging.WithContext(ctx, b.logger)

	cmds := []*catalog.Command{
		catalog.NewSeparator("Cheats"),
		catalog.NewAction(catalog.GlyphUser, "View Raw Patch File", catalog.OpViewRawPatch).WithPayload([]byte(path)),
	}
	script, err := os.ReadFile(path)
	if err != nil {
		logging.WarnWithContext(logger, "patch script unreadable", "patch_unreadable",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "cheat codes not listed"),
		)
		return cmds
	}
	logger.Debug("loading patch codes", logging.String("path", path))
	return b.patches.Load(script, cmds, ListContainerFiles, root)
}

func archiveCommands(entry *catalog.Entry) []*catalog.Command {
	return []*catalog.Command{
		catalog.NewAction(catalog.GlyphZip, "Extract "+entry.Name, catalog.OpExtractArchive).
			WithPayload([]byte(entry.Location)),
	}
}
