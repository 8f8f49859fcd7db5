package catalog

// Opcode identifies the action a command or option triggers. OpNone marks
// informational rows.
type Opcode uint8

const (
	OpNone Opcode = iota
	OpResignSave
	OpViewDetails
	OpCopySaveRemovable
	OpCopySaveLocal
	OpExportZipRemovable
	OpExportZipLocal
	OpDecryptFile
	OpImportFile
	OpExportKeystone
	OpImportKeystone
	OpDumpFingerprint
	OpExportGameKey
	OpDumpGameKey
	OpViewRawPatch
	OpPatchCode
	OpTrophyLock
	OpTrophyUnlock
	OpExtractArchive
	OpDownloadRemovable
	OpResignSelected
	OpResignAll
	OpCopySelectedLocal
	OpCopyAllLocal
	OpCopySelectedRemovable
	OpCopyAllRemovable
	OpRunWebServer
	OpDumpFingerprints
	OpExtractAllArchives
)

var opcodeNames = map[Opcode]string{
	OpNone:                  "none",
	OpResignSave:            "resign_save",
	OpViewDetails:           "view_details",
	OpCopySaveRemovable:     "copy_save_removable",
	OpCopySaveLocal:         "copy_save_local",
	OpExportZipRemovable:    "export_zip_removable",
	OpExportZipLocal:        "export_zip_local",
	OpDecryptFile:           "decrypt_file",
	OpImportFile:            "import_file",
	OpExportKeystone:        "export_keystone",
	OpImportKeystone:        "import_keystone",
	OpDumpFingerprint:       "dump_fingerprint",
	OpExportGameKey:         "export_game_key",
	OpDumpGameKey:           "dump_game_key",
	OpViewRawPatch:          "view_raw_patch",
	OpPatchCode:             "patch_code",
	OpTrophyLock:            "trophy_lock",
	OpTrophyUnlock:          "trophy_unlock",
	OpExtractArchive:        "extract_archive",
	OpDownloadRemovable:     "download_removable",
	OpResignSelected:        "resign_selected",
	OpResignAll:             "resign_all",
	OpCopySelectedLocal:     "copy_selected_local",
	OpCopyAllLocal:          "copy_all_local",
	OpCopySelectedRemovable: "copy_selected_removable",
	OpCopyAllRemovable:      "copy_all_removable",
	OpRunWebServer:          "run_web_server",
	OpDumpFingerprints:      "dump_fingerprints",
	OpExtractAllArchives:    "extract_all_archives",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return "unknown"
}
