package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"saveshelf/internal/sfo"
)

// WriteFile fills path with size bytes of a repeating pattern, creating parent
// directories. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	WriteBytes(t, path, bytes.Repeat([]byte{0x42}, int(size)))
}

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()
	WriteBytes(t, path, []byte(content))
}

// WriteBytes writes data to path, creating parent directories.
func WriteBytes(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteSFO encodes params as a metadata block at path.
func WriteSFO(t testing.TB, path string, params ...sfo.Param) {
	t.Helper()
	WriteBytes(t, path, sfo.Encode(params))
}

// VitaSave creates <root>/<dir>/sce_sys/param.sfo for titleID owned by
// account and returns the container directory.
func VitaSave(t testing.TB, root, dir, titleID string, account uint64) string {
	t.Helper()

	container := filepath.Join(root, dir)
	WriteSFO(t, filepath.Join(container, "sce_sys", "param.sfo"),
		sfo.VitaParams(titleID),
		sfo.AccountParam(account),
		sfo.Text(sfo.KeyParentDirectory, "/"+dir),
	)
	return container
}

// PSPSave creates <root>/<dir>/PARAM.SFO with the given title and returns the
// container directory.
func PSPSave(t testing.TB, root, dir, title string) string {
	t.Helper()

	container := filepath.Join(root, dir)
	WriteSFO(t, filepath.Join(container, "PARAM.SFO"),
		sfo.Text(sfo.KeyTitle, title),
		sfo.Text(sfo.KeySavedataDirectory, dir),
		sfo.Text(sfo.KeySavedataTitle, title+" Save"),
		sfo.Text(sfo.KeySavedataDetail, "Progress 50%"),
	)
	return container
}
