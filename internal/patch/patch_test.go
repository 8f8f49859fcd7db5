package patch

import (
	"strings"
	"testing"

	"saveshelf/internal/catalog"
)

func TestLoadGroupsCodesAndOptions(t *testing.T) {
	script := "; header comment\r\n" +
		"stray line before any header\r\n" +
		"[Group:Money]\r\n" +
		"[Max Money]\r\n" +
		"path:SAVEDATA.BIN\r\n" +
		"write at 0x10:0001869F\r\n" +
		"\r\n" +
		"[Unlock Slots]\n" +
		"path:*.bin\n" +
		"write at 0x20:FF\n"

	var gotRoot, gotMask string
	lister := func(root, mask string) []string {
		gotRoot, gotMask = root, mask
		return []string{"a.bin", "sub/b.bin"}
	}

	existing := []*catalog.Command{catalog.NewSeparator("Cheats")}
	out := NewScriptLoader(nil).Load([]byte(script), existing, lister, "/mnt/save")

	if len(out) != 4 {
		t.Fatalf("expected 4 commands, got %d", len(out))
	}
	if out[0] != existing[0] {
		t.Fatal("existing commands must be kept in front")
	}
	if !out[1].Separator || !strings.Contains(out[1].Label, "Money") {
		t.Fatalf("expected group separator, got %+v", out[1])
	}

	money := out[2]
	if money.Label != "Max Money" || money.Opcode != catalog.OpPatchCode {
		t.Fatalf("unexpected code %+v", money)
	}
	if string(money.Payload) != "path:SAVEDATA.BIN\nwrite at 0x10:0001869F" {
		t.Fatalf("unexpected payload %q", money.Payload)
	}
	if len(money.Options) != 0 {
		t.Fatalf("fixed path must not produce options, got %d", len(money.Options))
	}

	slots := out[3]
	if len(slots.Options) != 2 {
		t.Fatalf("expected 2 file options, got %d", len(slots.Options))
	}
	if gotRoot != "/mnt/save" || gotMask != "*.bin" {
		t.Fatalf("unexpected lister call %q %q", gotRoot, gotMask)
	}
	if slots.Options[1].Label != "sub/b.bin" || string(slots.Options[1].Value) != "*.bin" || slots.Options[1].Selected != -1 {
		t.Fatalf("unexpected option %+v", slots.Options[1])
	}
}

func TestLoadEmptyScript(t *testing.T) {
	out := NewScriptLoader(nil).Load(nil, nil, nil, "")
	if len(out) != 0 {
		t.Fatalf("expected no commands, got %d", len(out))
	}
}
