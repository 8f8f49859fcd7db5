package commands

import (
	"saveshelf/internal/catalog"
	"saveshelf/internal/fileutil"
)

// MetadataNames are container entries never offered for export or import.
var MetadataNames = map[string]struct{}{
	"sce_sys":   {},
	"ICON0.PNG": {},
	"PARAM.SFO": {},
	"PIC1.PNG":  {},
	"ICON1.PMF": {},
	"SND0.AT3":  {},
}

// ListContainerFiles lists files below root matching mask, relative to root,
// leaving out metadata. An unreadable root yields nothing.
func ListContainerFiles(root, mask string) []string {
	files, err := fileutil.ListFiles(root, mask, MetadataNames)
	if err != nil {
		return nil
	}
	return files
}

// FileOptions returns one option per file below root matching mask. Each
// option is labeled with the relative path and carries op as its value.
func FileOptions(root, mask string, op catalog.Opcode) []*catalog.Option {
	files := ListContainerFiles(root, mask)
	options := make([]*catalog.Option, 0, len(files))
	for _, f := range files {
		options = append(options, catalog.NewOption(f, byte(op)))
	}
	return options
}
