// Package dicomvr defines the closed set of DICOM value representations (VR)
// and the encoding properties attached to each of them. See P3.5 6.2.
package dicomvr

import (
	"fmt"
)

// VR is a value representation code, e.g. US or PN. The zero value is UN,
// which is also what unrecognized codes resolve to.
type VR uint8

const (
	UN VR = iota // Unknown
	AE           // Application Entity
	AS           // Age String
	AT           // Attribute Tag
	CS           // Code String
	DA           // Date
	DS           // Decimal String
	DT           // Date Time
	FD           // Floating Point Double
	FL           // Floating Point Single
	IS           // Integer String
	LO           // Long String
	LT           // Long Text
	OB           // Other Byte
	OD           // Other Double
	OF           // Other Float
	OL           // Other Long
	OV           // Other 64-bit Very Long
	OW           // Other Word
	PN           // Person Name
	SH           // Short String
	SL           // Signed Long
	SQ           // Sequence of Items
	SS           // Signed Short
	ST           // Short Text
	SV           // Signed 64-bit Very Long
	TM           // Time
	UC           // Unlimited Characters
	UI           // Unique Identifier
	UL           // Unsigned Long
	UR           // Universal Resource Identifier
	US           // Unsigned Short
	UT           // Unlimited Text
	UV           // Unsigned 64-bit Very Long
)

// Category groups VRs by how their value bytes are interpreted.
type Category int

const (
	// CategoryString is for backslash-delimited character data.
	CategoryString Category = iota
	// CategoryInteger is for binary signed and unsigned integers.
	CategoryInteger
	// CategoryFloat is for IEEE floating point numbers.
	CategoryFloat
	// CategoryBinary is for opaque byte or word streams, and AT.
	CategoryBinary
	// CategorySequence is for SQ.
	CategorySequence
)

func (c Category) String() string {
	switch c {
	case CategoryString:
		return "string"
	case CategoryInteger:
		return "integer"
	case CategoryFloat:
		return "float"
	case CategoryBinary:
		return "binary"
	case CategorySequence:
		return "sequence"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

type info struct {
	code     string
	category Category
	// size is the width of one value for VM counting, or 0 if variable.
	size int
	// wordSize is the unit swapped when the byte order changes, or 0.
	wordSize   int
	longLength bool
	undefined  bool
	pad        byte
	// single is set for text VRs where '\' is not a value delimiter.
	single bool
}

// registry is indexed by VR and never modified after package init.
var registry = [...]info{
	UN: {code: "UN", category: CategoryBinary, longLength: true, undefined: true},
	AE: {code: "AE", category: CategoryString, pad: ' '},
	AS: {code: "AS", category: CategoryString, pad: ' '},
	AT: {code: "AT", category: CategoryBinary, size: 4, wordSize: 2},
	CS: {code: "CS", category: CategoryString, pad: ' '},
	DA: {code: "DA", category: CategoryString, pad: ' '},
	DS: {code: "DS", category: CategoryString, pad: ' '},
	DT: {code: "DT", category: CategoryString, pad: ' '},
	FD: {code: "FD", category: CategoryFloat, size: 8, wordSize: 8},
	FL: {code: "FL", category: CategoryFloat, size: 4, wordSize: 4},
	IS: {code: "IS", category: CategoryString, pad: ' '},
	LO: {code: "LO", category: CategoryString, pad: ' '},
	LT: {code: "LT", category: CategoryString, pad: ' ', single: true},
	OB: {code: "OB", category: CategoryBinary, longLength: true, undefined: true},
	OD: {code: "OD", category: CategoryBinary, wordSize: 8, longLength: true},
	OF: {code: "OF", category: CategoryBinary, wordSize: 4, longLength: true},
	OL: {code: "OL", category: CategoryBinary, wordSize: 4, longLength: true},
	OV: {code: "OV", category: CategoryBinary, wordSize: 8, longLength: true},
	OW: {code: "OW", category: CategoryBinary, wordSize: 2, longLength: true, undefined: true},
	PN: {code: "PN", category: CategoryString, pad: ' '},
	SH: {code: "SH", category: CategoryString, pad: ' '},
	SL: {code: "SL", category: CategoryInteger, size: 4, wordSize: 4},
	SQ: {code: "SQ", category: CategorySequence, longLength: true, undefined: true},
	SS: {code: "SS", category: CategoryInteger, size: 2, wordSize: 2},
	ST: {code: "ST", category: CategoryString, pad: ' ', single: true},
	SV: {code: "SV", category: CategoryInteger, size: 8, wordSize: 8, longLength: true},
	TM: {code: "TM", category: CategoryString, pad: ' '},
	UC: {code: "UC", category: CategoryString, pad: ' ', longLength: true},
	UI: {code: "UI", category: CategoryString, pad: 0},
	UL: {code: "UL", category: CategoryInteger, size: 4, wordSize: 4},
	UR: {code: "UR", category: CategoryString, pad: ' ', longLength: true, single: true},
	US: {code: "US", category: CategoryInteger, size: 2, wordSize: 2},
	UT: {code: "UT", category: CategoryString, pad: ' ', longLength: true, single: true},
	UV: {code: "UV", category: CategoryInteger, size: 8, wordSize: 8, longLength: true},
}

var byCode = func() map[string]VR {
	m := make(map[string]VR, len(registry))
	for i, e := range registry {
		m[e.code] = VR(i)
	}
	return m
}()

// Parse returns the VR for a two-letter code such as "US".
func Parse(code string) (VR, error) {
	vr, ok := byCode[code]
	if !ok {
		return UN, fmt.Errorf("dicomvr: unknown VR code %q", code)
	}
	return vr, nil
}

// Resolve is like Parse, but unrecognized codes are returned as UN so
// decoding can carry on.
func Resolve(code string) VR {
	vr, _ := Parse(code)
	return vr
}

func (vr VR) info() info {
	if int(vr) >= len(registry) {
		return registry[UN]
	}
	return registry[vr]
}

// String returns the two-letter code.
func (vr VR) String() string { return vr.info().code }

// Category returns how values of this VR are interpreted.
func (vr VR) Category() Category { return vr.info().category }

// Size returns the byte width of a single value, or 0 if values have
// variable width.
func (vr VR) Size() int { return vr.info().size }

// WordSize returns the unit the value must be byte-swapped in when the byte
// order changes. It is 0 when byte order does not affect the value.
func (vr VR) WordSize() int { return vr.info().wordSize }

// IsLongLength reports whether explicit-VR encoding uses 2 reserved bytes
// followed by a 4-byte length for this VR. P3.5 7.1.2.
func (vr VR) IsLongLength() bool { return vr.info().longLength }

// AllowsUndefinedLength reports whether the value length may be 0xFFFFFFFF.
func (vr VR) AllowsUndefinedLength() bool { return vr.info().undefined }

// PadByte returns the byte appended to odd-length values.
func (vr VR) PadByte() byte { return vr.info().pad }

// IsMultiValued reports whether a backslash separates values. It is false
// for binary VRs and LT, ST, UR, UT.
func (vr VR) IsMultiValued() bool {
	i := vr.info()
	return i.category == CategoryString && !i.single
}

// IsString is shorthand for Category()==CategoryString.
func (vr VR) IsString() bool { return vr.Category() == CategoryString }

// IsSequence is shorthand for vr == SQ.
func (vr VR) IsSequence() bool { return vr == SQ }
