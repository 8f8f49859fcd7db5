package fileutil

import (
	"os"
	"path/filepath"
)

// ListFiles returns the paths, relative to root, of every regular file below
// root whose base name matches mask. Names in skip are ignored at every depth,
// together with anything beneath them. Directories are visited in os.ReadDir
// order and relative paths use forward slashes.
func ListFiles(root, mask string, skip map[string]struct{}) ([]string, error) {
	var out []string
	if err := walkFiles(root, "", mask, skip, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func walkFiles(root, rel, mask string, skip map[string]struct{}, out *[]string) error {
	entries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		if _, ok := skip[name]; ok {
			continue
		}
		childRel := name
		if rel != "" {
			childRel = rel + "/" + name
		}
		if entry.IsDir() {
			if err := walkFiles(root, childRel, mask, skip, out); err != nil {
				return err
			}
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		if MatchWildcard(name, mask) {
			*out = append(*out, childRel)
		}
	}
	return nil
}
