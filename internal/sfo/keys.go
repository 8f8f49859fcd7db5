package sfo

import (
	"encoding/binary"
	"strings"
)

// Well-known keys in save metadata blocks.
const (
	KeyParams            = "PARAMS"
	KeyAccountID         = "ACCOUNT_ID"
	KeyParentDirectory   = "PARENT_DIRECTORY"
	KeyTitle             = "TITLE"
	KeySavedataDirectory = "SAVEDATA_DIRECTORY"
	KeySavedataTitle     = "SAVEDATA_TITLE"
	KeySavedataDetail    = "SAVEDATA_DETAIL"
)

// ParamsTitleIDOffset is where PARAMS embeds the owning title id.
const ParamsTitleIDOffset = 0x28

// ParamsSize is the size of the PARAMS block in Vita save metadata.
const ParamsSize = 0x400

// VitaTitleID returns the title id embedded in PARAMS.
func (f *File) VitaTitleID() (string, bool) {
	id, ok := f.StringAt(KeyParams, ParamsTitleIDOffset)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// ParentDirectory returns PARENT_DIRECTORY without its leading slash.
func (f *File) ParentDirectory() string {
	return strings.TrimPrefix(f.String(KeyParentDirectory), "/")
}

// AccountID returns the 8-byte owner account id.
func (f *File) AccountID() (uint64, bool) {
	return f.Uint64(KeyAccountID)
}

// VitaParams builds a PARAMS block carrying titleID at ParamsTitleIDOffset.
func VitaParams(titleID string) Param {
	data := make([]byte, ParamsSize)
	copy(data[ParamsTitleIDOffset:ParamsTitleIDOffset+16], titleID)
	return Binary(KeyParams, data)
}

// AccountParam builds an ACCOUNT_ID value.
func AccountParam(id uint64) Param {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, id)
	return Binary(KeyAccountID, data)
}
