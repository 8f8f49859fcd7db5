// Package manifest parses newline-delimited key=value catalog text.
//
// Two shapes are in use. Category lists (games.txt) split each line at the
// first '='. Per-title lists (saves.txt) carry a fixed-width key, so the '='
// must sit exactly at the key width; lines that do not are reported as
// malformed records and skipped by callers.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"iter"

	"saveshelf/internal/services"
)

// FixedKeyWidth is the key width used by per-title save lists.
const FixedKeyWidth = 12

// Record is one key=value line.
type Record struct {
	// Line is the 1-based line number in the source buffer.
	Line  int
	Key   string
	Value string
	// Raw is the full line without its terminator.
	Raw string
}

// Parser splits manifest text into records. A zero KeyWidth splits at the
// first '='.
type Parser struct {
	KeyWidth int
}

// Records lazily yields the records in data. Malformed lines yield an error
// wrapping services.ErrMalformedRecord and iteration continues. A cursor bounds
// violation yields services.ErrMalformedManifest and ends iteration.
func (p Parser) Records(data []byte) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		cur := cursor{data: data}
		for {
			line, lineNo, ok, err := cur.next()
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !ok {
				return
			}
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			record, err := p.parseLine(line, lineNo)
			if !yield(record, err) {
				return
			}
		}
	}
}

func (p Parser) parseLine(line []byte, lineNo int) (Record, error) {
	var sep int
	if p.KeyWidth > 0 {
		if len(line) <= p.KeyWidth || line[p.KeyWidth] != '=' {
			return Record{Line: lineNo, Raw: string(line)}, services.Wrap(services.ErrMalformedRecord, "manifest", "parse",
				fmt.Sprintf("line %d: expected '=' after %d byte key", lineNo, p.KeyWidth), nil)
		}
		sep = p.KeyWidth
	} else {
		sep = bytes.IndexByte(line, '=')
		if sep < 0 {
			return Record{Line: lineNo, Raw: string(line)}, services.Wrap(services.ErrMalformedRecord, "manifest", "parse",
				fmt.Sprintf("line %d: missing '='", lineNo), nil)
		}
	}
	return Record{
		Line:  lineNo,
		Key:   string(line[:sep]),
		Value: string(line[sep+1:]),
		Raw:   string(line),
	}, nil
}

// Collect drains seq into a slice. Malformed records are counted and skipped;
// only a manifest bounds violation is returned as an error.
func Collect(seq iter.Seq2[Record, error]) ([]Record, int, error) {
	var (
		records []Record
		skipped int
	)
	for record, err := range seq {
		if err != nil {
			if errors.Is(err, services.ErrMalformedManifest) {
				return records, skipped, err
			}
			skipped++
			continue
		}
		records = append(records, record)
	}
	return records, skipped, nil
}

// Serialize writes records back as key=value lines, each followed by sep.
func Serialize(records []Record, sep string) []byte {
	var buf bytes.Buffer
	for _, record := range records {
		buf.WriteString(record.Key)
		buf.WriteByte('=')
		buf.WriteString(record.Value)
		buf.WriteString(sep)
	}
	return buf.Bytes()
}

// cursor walks data one line at a time. pos never exceeds len(data); next
// checks that before every slice operation.
type cursor struct {
	data []byte
	pos  int
	line int
}

func (c *cursor) next() ([]byte, int, bool, error) {
	if c.pos < 0 || c.pos > len(c.data) {
		return nil, 0, false, services.Wrap(services.ErrMalformedManifest, "manifest", "scan",
			fmt.Sprintf("cursor %d outside buffer of %d bytes", c.pos, len(c.data)), nil)
	}
	if c.pos == len(c.data) {
		return nil, 0, false, nil
	}
	rest := c.data[c.pos:]
	end := bytes.IndexAny(rest, "\r\n")
	if end < 0 {
		c.pos = len(c.data)
		c.line++
		return rest, c.line, true, nil
	}
	line := rest[:end]
	advance := end + 1
	if rest[end] == '\r' && end+1 < len(rest) && rest[end+1] == '\n' {
		advance++
	}
	c.pos += advance
	c.line++
	return line, c.line, true, nil
}
