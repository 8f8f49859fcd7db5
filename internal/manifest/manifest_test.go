package manifest

import (
	"errors"
	"strings"
	"testing"

	"saveshelf/internal/services"
)

func collect(t *testing.T, p Parser, text string) ([]Record, int) {
	t.Helper()
	records, skipped, err := Collect(p.Records([]byte(text)))
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	return records, skipped
}

func TestRecordsSplitsAtFirstEquals(t *testing.T) {
	records, skipped := collect(t, Parser{}, "NPXX00001=Sample Game A\nNPXX00002=Sample Game B\n")
	if skipped != 0 {
		t.Fatalf("expected no skipped lines, got %d", skipped)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Key != "NPXX00001" || records[0].Value != "Sample Game A" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].Key != "NPXX00002" || records[1].Value != "Sample Game B" || records[1].Line != 2 {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestRecordsValueMayContainEquals(t *testing.T) {
	records, _ := collect(t, Parser{}, "PCSE00001=A=B")
	if len(records) != 1 || records[0].Value != "A=B" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestRecordsLineTerminators(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "lf", text: "a=1\nb=2\n", want: []string{"a", "b"}},
		{name: "cr", text: "a=1\rb=2\r", want: []string{"a", "b"}},
		{name: "crlf", text: "a=1\r\nb=2\r\n", want: []string{"a", "b"}},
		{name: "mixed", text: "a=1\r\nb=2\rc=3\n", want: []string{"a", "b", "c"}},
		{name: "missing final terminator", text: "a=1\nb=2", want: []string{"a", "b"}},
		{name: "single line without terminator", text: "a=1", want: []string{"a"}},
		{name: "trailing blank lines", text: "a=1\n\n\r\n", want: []string{"a"}},
		{name: "lone terminator", text: "\n", want: nil},
		{name: "empty buffer", text: "", want: nil},
		{name: "whitespace only tail", text: "a=1\n   ", want: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _ := collect(t, Parser{}, tt.text)
			if len(records) != len(tt.want) {
				t.Fatalf("expected %d records, got %d (%+v)", len(tt.want), len(records), records)
			}
			for i, key := range tt.want {
				if records[i].Key != key {
					t.Fatalf("record %d: got key %q want %q", i, records[i].Key, key)
				}
			}
		})
	}
}

func TestRecordsFinalLineValueIsNotTruncated(t *testing.T) {
	records, _ := collect(t, Parser{}, "a=1\nb=last")
	if records[len(records)-1].Value != "last" {
		t.Fatalf("final line value truncated: %+v", records[len(records)-1])
	}

	records, _ = collect(t, Parser{KeyWidth: FixedKeyWidth}, "ABCDEFGHIJKL=x")
	if len(records) != 1 || records[0].Value != "x" {
		t.Fatalf("unexpected fixed width final line: %+v", records)
	}
}

func TestRecordsFixedWidthKey(t *testing.T) {
	text := strings.Join([]string{
		"PCSE00001-01=Save slot one",
		"SHORT=bad",
		"PCSE00001-02=",
		"PCSE00001-0=misplaced",
		"PCSE00001-03=Slot=three",
		"PCSE00001-04",
	}, "\n")

	var (
		records []Record
		errs    []error
	)
	for record, err := range (Parser{KeyWidth: FixedKeyWidth}).Records([]byte(text)) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, record)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 well-formed records, got %d (%+v)", len(records), records)
	}
	if records[0].Key != "PCSE00001-01" || records[0].Value != "Save slot one" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].Value != "" {
		t.Fatalf("expected empty value, got %+v", records[1])
	}
	if records[2].Value != "Slot=three" {
		t.Fatalf("expected value to keep later '=', got %+v", records[2])
	}
	if len(errs) != 3 {
		t.Fatalf("expected 3 malformed lines, got %d", len(errs))
	}
	for _, err := range errs {
		if !errors.Is(err, services.ErrMalformedRecord) {
			t.Fatalf("expected malformed record error, got %v", err)
		}
		if !services.Recoverable(err) {
			t.Fatalf("malformed records must be recoverable: %v", err)
		}
	}
}

func TestRecordsMissingSeparatorIsSkipped(t *testing.T) {
	records, skipped := collect(t, Parser{}, "# header\nPCSE00001=Game\n")
	if skipped != 1 || len(records) != 1 {
		t.Fatalf("expected one skipped line and one record, got %d/%d", skipped, len(records))
	}
}

func TestRecordsStopsWhenConsumerStops(t *testing.T) {
	count := 0
	for range (Parser{}).Records([]byte("a=1\nb=2\nc=3\n")) {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Fatalf("expected early stop after 2 records, got %d", count)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"NPXX00001=Sample Game A\nNPXX00002=Sample Game B\n",
		"k=v\n",
		"a==\nb=c=d\n",
		"",
	}
	for _, input := range inputs {
		records, skipped := collect(t, Parser{}, input)
		if skipped != 0 {
			t.Fatalf("unexpected skipped lines for %q", input)
		}
		if got := string(Serialize(records, "\n")); got != input {
			t.Fatalf("round trip mismatch: got %q want %q", got, input)
		}
	}

	// Terminators are normalized to the requested separator.
	records, _ := collect(t, Parser{}, "a=1\r\nb=2")
	if got := string(Serialize(records, "\r\n")); got != "a=1\r\nb=2\r\n" {
		t.Fatalf("unexpected normalized output %q", got)
	}

	fixed := "PCSE00001-01=Slot A\nPCSE00001-02=Slot B\n"
	records, _ = collect(t, Parser{KeyWidth: FixedKeyWidth}, fixed)
	if got := string(Serialize(records, "\n")); got != fixed {
		t.Fatalf("fixed width round trip mismatch: %q", got)
	}
}

func TestCursorBoundsViolation(t *testing.T) {
	cur := cursor{data: []byte("a=1"), pos: 4}
	_, _, ok, err := cur.next()
	if ok {
		t.Fatal("expected no line past the buffer end")
	}
	if !errors.Is(err, services.ErrMalformedManifest) {
		t.Fatalf("expected malformed manifest error, got %v", err)
	}
	if services.Recoverable(err) {
		t.Fatal("bounds violations must not be recoverable")
	}

	cur = cursor{data: []byte("a=1\n")}
	for i := 0; i < 3; i++ {
		if _, _, _, err := cur.next(); err != nil {
			t.Fatalf("call %d: unexpected error at end of buffer: %v", i, err)
		}
	}
	if cur.pos != len(cur.data) {
		t.Fatalf("cursor moved past end: %d", cur.pos)
	}
}
