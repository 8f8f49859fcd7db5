package sfo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"saveshelf/internal/services"
)

// Magic is the "\0PSF" signature at offset 0, read little-endian.
const Magic uint32 = 0x46535000

// DefaultVersion is the version written by Encode.
const DefaultVersion uint32 = 0x0101

const (
	headerSize = 20
	entrySize  = 16
)

// Format is the storage format of one value.
type Format uint16

const (
	FormatBinary Format = 0x0004
	FormatString Format = 0x0204
	FormatInt32  Format = 0x0404
)

// Param is one named value.
type Param struct {
	Key    string
	Format Format
	Data   []byte
	// MaxLen is the reserved size in the data table. Zero means len(Data).
	MaxLen uint32
}

// File is a parsed metadata block.
type File struct {
	Version uint32
	params  []Param
	index   map[string]int
}

// ParseFile reads and parses the block at path.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "sfo", "read", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes buf. Every offset is bounds-checked; a block that points
// outside buf is reported as services.ErrMalformedRecord.
func Parse(buf []byte) (*File, error) {
	if len(buf) < headerSize {
		return nil, malformed("header truncated (%d bytes)", len(buf))
	}
	le := binary.LittleEndian
	if magic := le.Uint32(buf[0:4]); magic != Magic {
		return nil, malformed("bad magic 0x%08x", magic)
	}
	version := le.Uint32(buf[4:8])
	keyTable := le.Uint32(buf[8:12])
	dataTable := le.Uint32(buf[12:16])
	count := le.Uint32(buf[16:20])

	indexEnd := uint64(headerSize) + uint64(count)*entrySize
	if indexEnd > uint64(len(buf)) {
		return nil, malformed("index of %d entries exceeds buffer", count)
	}
	if uint64(keyTable) > uint64(len(buf)) || uint64(dataTable) > uint64(len(buf)) {
		return nil, malformed("table offsets exceed buffer")
	}

	f := &File{
		Version: version,
		params:  make([]Param, 0, count),
		index:   make(map[string]int, count),
	}
	for i := uint32(0); i < count; i++ {
		e := buf[headerSize+i*entrySize : headerSize+(i+1)*entrySize]
		keyOff := uint64(keyTable) + uint64(le.Uint16(e[0:2]))
		format := Format(le.Uint16(e[2:4]))
		length := le.Uint32(e[4:8])
		maxLen := le.Uint32(e[8:12])
		dataOff := uint64(dataTable) + uint64(le.Uint32(e[12:16]))

		if keyOff >= uint64(len(buf)) {
			return nil, malformed("entry %d key offset out of range", i)
		}
		key := buf[keyOff:]
		end := bytes.IndexByte(key, 0)
		if end < 0 {
			return nil, malformed("entry %d key not terminated", i)
		}
		if dataOff+uint64(length) > uint64(len(buf)) {
			return nil, malformed("entry %d data out of range", i)
		}
		p := Param{
			Key:    string(key[:end]),
			Format: format,
			Data:   bytes.Clone(buf[dataOff : dataOff+uint64(length)]),
			MaxLen: maxLen,
		}
		if _, dup := f.index[p.Key]; !dup {
			f.index[p.Key] = len(f.params)
		}
		f.params = append(f.params, p)
	}
	return f, nil
}

func malformed(format string, args ...any) error {
	return services.Wrap(services.ErrMalformedRecord, "sfo", "parse", fmt.Sprintf(format, args...), nil)
}

// Params returns the values in index order.
func (f *File) Params() []Param {
	if f == nil {
		return nil
	}
	out := make([]Param, len(f.params))
	copy(out, f.params)
	return out
}

// Values returns the block as a name to raw value map.
func (f *File) Values() map[string][]byte {
	if f == nil {
		return nil
	}
	out := make(map[string][]byte, len(f.params))
	for _, p := range f.params {
		if _, ok := out[p.Key]; !ok {
			out[p.Key] = bytes.Clone(p.Data)
		}
	}
	return out
}

// Lookup returns the raw value stored under key.
func (f *File) Lookup(key string) ([]byte, bool) {
	if f == nil {
		return nil, false
	}
	i, ok := f.index[key]
	if !ok {
		return nil, false
	}
	return f.params[i].Data, true
}

// String returns the value under key up to its first NUL byte.
func (f *File) String(key string) string {
	data, ok := f.Lookup(key)
	if !ok {
		return ""
	}
	return CString(data)
}

// StringAt returns the NUL-terminated string found at offset inside the value
// under key. Binary blocks such as PARAMS embed strings at fixed offsets.
func (f *File) StringAt(key string, offset int) (string, bool) {
	data, ok := f.Lookup(key)
	if !ok || offset < 0 || offset >= len(data) {
		return "", false
	}
	return CString(data[offset:]), true
}

// Uint64 decodes an 8-byte little-endian value such as ACCOUNT_ID.
func (f *File) Uint64(key string) (uint64, bool) {
	data, ok := f.Lookup(key)
	if !ok || len(data) < 8 {
		return 0, false
	}
	return binary.LittleEndian.Uint64(data[:8]), true
}

// Uint32 decodes a 4-byte little-endian value.
func (f *File) Uint32(key string) (uint32, bool) {
	data, ok := f.Lookup(key)
	if !ok || len(data) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data[:4]), true
}

// CString returns data up to its first NUL byte.
func CString(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return string(data)
}

// Encode writes params as a metadata block. Keys are stored sorted, which is
// the order the index of a well-formed block uses.
func Encode(params []Param) []byte {
	sorted := make([]Param, len(params))
	copy(sorted, params)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	var keys bytes.Buffer
	keyOffsets := make([]int, len(sorted))
	for i, p := range sorted {
		keyOffsets[i] = keys.Len()
		keys.WriteString(p.Key)
		keys.WriteByte(0)
	}
	for keys.Len()%4 != 0 {
		keys.WriteByte(0)
	}

	var data bytes.Buffer
	dataOffsets := make([]int, len(sorted))
	maxLens := make([]uint32, len(sorted))
	for i, p := range sorted {
		dataOffsets[i] = data.Len()
		maxLen := p.MaxLen
		if maxLen < uint32(len(p.Data)) {
			maxLen = uint32(len(p.Data))
		}
		maxLens[i] = maxLen
		data.Write(p.Data)
		data.Write(make([]byte, int(maxLen)-len(p.Data)))
	}

	keyTable := headerSize + len(sorted)*entrySize
	dataTable := keyTable + keys.Len()
	out := make([]byte, dataTable, dataTable+data.Len())
	le := binary.LittleEndian
	le.PutUint32(out[0:4], Magic)
	le.PutUint32(out[4:8], DefaultVersion)
	le.PutUint32(out[8:12], uint32(keyTable))
	le.PutUint32(out[12:16], uint32(dataTable))
	le.PutUint32(out[16:20], uint32(len(sorted)))
	for i, p := range sorted {
		e := out[headerSize+i*entrySize : headerSize+(i+1)*entrySize]
		le.PutUint16(e[0:2], uint16(keyOffsets[i]))
		le.PutUint16(e[2:4], uint16(p.Format))
		le.PutUint32(e[4:8], uint32(len(p.Data)))
		le.PutUint32(e[8:12], maxLens[i])
		le.PutUint32(e[12:16], uint32(dataOffsets[i]))
	}
	copy(out[keyTable:], keys.Bytes())
	return append(out, data.Bytes()...)
}

// Text returns a NUL-terminated string param.
func Text(key, value string) Param {
	return Param{Key: key, Format: FormatString, Data: append([]byte(value), 0)}
}

// Binary returns a raw binary param.
func Binary(key string, data []byte) Param {
	return Param{Key: key, Format: FormatBinary, Data: bytes.Clone(data)}
}

// Int returns a 4-byte integer param.
func Int(key string, value uint32) Param {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, value)
	return Param{Key: key, Format: FormatInt32, Data: data}
}
