package sfo

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"saveshelf/internal/services"
)

func TestParseVitaSaveBlock(t *testing.T) {
	buf := Encode([]Param{
		VitaParams("PCSE00001"),
		AccountParam(0x0123456789abcdef),
		Text(KeyParentDirectory, "/PCSE00001"),
		Text(KeyTitle, "Sample Game"),
	})

	f, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if id, ok := f.VitaTitleID(); !ok || id != "PCSE00001" {
		t.Fatalf("unexpected title id %q ok=%v", id, ok)
	}
	if acct, ok := f.AccountID(); !ok || acct != 0x0123456789abcdef {
		t.Fatalf("unexpected account id %x ok=%v", acct, ok)
	}
	if got := f.ParentDirectory(); got != "PCSE00001" {
		t.Fatalf("unexpected parent directory %q", got)
	}
	if got := f.String(KeyTitle); got != "Sample Game" {
		t.Fatalf("unexpected title %q", got)
	}
	if f.Version != DefaultVersion {
		t.Fatalf("unexpected version %#x", f.Version)
	}
}

func TestParsePSPSaveBlockWithPadding(t *testing.T) {
	title := Text(KeyTitle, "PSP Game")
	title.MaxLen = 128
	buf := Encode([]Param{
		title,
		Text(KeySavedataDirectory, "ULUS10041DATA00"),
		Text(KeySavedataTitle, "Slot 1"),
		Text(KeySavedataDetail, "Chapter 3"),
		Int("PARENTAL_LEVEL", 1),
	})
	f, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := f.String(KeyTitle); got != "PSP Game" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := f.String(KeySavedataDirectory); got != "ULUS10041DATA00" {
		t.Fatalf("unexpected directory %q", got)
	}
	if level, ok := f.Uint32("PARENTAL_LEVEL"); !ok || level != 1 {
		t.Fatalf("unexpected parental level %d ok=%v", level, ok)
	}
	values := f.Values()
	if len(values) != 5 {
		t.Fatalf("expected 5 values, got %d", len(values))
	}
	if _, ok := f.Lookup("MISSING"); ok {
		t.Fatal("expected missing key lookup to fail")
	}
	if got := f.String("MISSING"); got != "" {
		t.Fatalf("expected empty string for missing key, got %q", got)
	}
}

func TestParseRejectsCorruptBlocks(t *testing.T) {
	valid := Encode([]Param{Text(KeyTitle, "x")})

	badMagic := append([]byte(nil), valid...)
	badMagic[1] = 'X'

	hugeCount := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(hugeCount[16:20], 1000)

	badData := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badData[headerSize+12:headerSize+16], 1<<20)

	cases := map[string][]byte{
		"empty":       nil,
		"short":       valid[:10],
		"bad magic":   badMagic,
		"huge count":  hugeCount,
		"data offset": badData,
	}
	for name, buf := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(buf); !errors.Is(err, services.ErrMalformedRecord) {
				t.Fatalf("expected malformed record, got %v", err)
			}
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "PARAM.SFO"))
	if !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
}

func TestParseFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "param.sfo")
	if err := os.WriteFile(path, Encode([]Param{Text(KeyTitle, "On Disk")}), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if got := f.String(KeyTitle); got != "On Disk" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestStringAtOutOfRange(t *testing.T) {
	f, err := Parse(Encode([]Param{Binary(KeyParams, []byte{1, 2})}))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := f.VitaTitleID(); ok {
		t.Fatal("expected short PARAMS to yield no title id")
	}
	if _, ok := f.AccountID(); ok {
		t.Fatal("expected missing account id")
	}
}
