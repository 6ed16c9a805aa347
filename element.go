package dicom

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/odincare/dcmlite/dicomio"
	"github.com/odincare/dcmlite/dicomtag"
	"github.com/odincare/dcmlite/dicomvr"
)

// UndefinedLength is the value length of sequences and items that are
// terminated by a delimitation item instead. P3.5 7.1.1.
const UndefinedLength uint32 = 0xffffffff

var (
	// ErrOddLength is returned when installing an odd-sized value buffer.
	ErrOddLength = errors.New("dicom: value length must be even")
	// ErrVRMismatch is returned by typed accessors that don't match the
	// element's VR.
	ErrVRMismatch = errors.New("dicom: accessor does not match VR")
	// ErrNoValue is returned by scalar getters on an empty element.
	ErrNoValue = errors.New("dicom: element has no value")
	// ErrByteOrderNotApplicable is returned by SetByteOrder for VRs whose
	// bytes don't depend on the byte order (strings, OB, UN, SQ).
	ErrByteOrderNotApplicable = errors.New("dicom: byte order does not apply to VR")
	// ErrMultiplicity is returned when setting several values on a VR that
	// holds a single one (LT, ST, UR, UT).
	ErrMultiplicity = errors.New("dicom: VR does not allow multiple values")
)

// DataElement is a simple (non-sequence) element: a tag, its VR and the raw
// value bytes in the given byte order. Use NewDataElement or
// NewDataElementWithVR to create one.
//
// The buffer is owned by the element. Its size is always even, and Length()
// equals its size unless the length is undefined.
type DataElement struct {
	tag       dicomtag.Tag
	vr        dicomvr.VR
	byteOrder binary.ByteOrder
	length    uint32
	buffer    []byte
}

// NewDataElement creates an empty element whose VR is looked up from the
// data dictionary. Tags missing from the dictionary get UN.
func NewDataElement(tag dicomtag.Tag, byteOrder binary.ByteOrder) *DataElement {
	return NewDataElementWithVR(tag, dicomtag.LookupVR(tag), byteOrder)
}

// NewDataElementWithVR creates an empty element with an explicit VR. A nil
// byteOrder means little endian.
func NewDataElementWithVR(tag dicomtag.Tag, vr dicomvr.VR, byteOrder binary.ByteOrder) *DataElement {
	if byteOrder == nil {
		byteOrder = binary.LittleEndian
	}
	return &DataElement{tag: tag, vr: vr, byteOrder: byteOrder}
}

func (e *DataElement) element() {}

// Tag returns the element's tag.
func (e *DataElement) Tag() dicomtag.Tag { return e.tag }

// VR returns the element's value representation.
func (e *DataElement) VR() dicomvr.VR { return e.vr }

// ByteOrder returns the byte order of the current buffer contents.
func (e *DataElement) ByteOrder() binary.ByteOrder { return e.byteOrder }

// Length returns the value length. It is UndefinedLength or len(Buffer()).
func (e *DataElement) Length() uint32 { return e.length }

// Buffer returns the raw value bytes. Callers must not modify them.
func (e *DataElement) Buffer() []byte { return e.buffer }

// SetLength overrides the value length of an element without a buffer, e.g.
// to mark it as undefined-length.
func (e *DataElement) SetLength(length uint32) error {
	if length == UndefinedLength && !e.vr.AllowsUndefinedLength() {
		return fmt.Errorf("%w: %s has VR %v", ErrUndefinedLength, dicomtag.DebugString(e.tag), e.vr)
	}
	if len(e.buffer) > 0 && length != uint32(len(e.buffer)) {
		return fmt.Errorf("dicom: length %d does not match %d buffered bytes of %s",
			length, len(e.buffer), dicomtag.DebugString(e.tag))
	}
	if length != UndefinedLength && length%2 != 0 {
		return fmt.Errorf("%w: %d", ErrOddLength, length)
	}
	e.length = length
	return nil
}

// SetBuffer installs a copy of b as the value. Odd sizes are rejected and
// leave the element unchanged.
func (e *DataElement) SetBuffer(b []byte) error {
	if len(b)%2 != 0 {
		return fmt.Errorf("%w: %d bytes for %s", ErrOddLength, len(b), dicomtag.DebugString(e.tag))
	}
	e.install(append([]byte(nil), b...))
	return nil
}

// install takes ownership of b, which must be even-sized.
func (e *DataElement) install(b []byte) {
	e.buffer = b
	e.length = uint32(len(b))
}

// SetByteOrder reinterprets the buffer in the given byte order, swapping
// every VR-sized word in place. It fails without side effects when the VR
// has no fixed word size. Setting the current order is a successful no-op.
func (e *DataElement) SetByteOrder(order binary.ByteOrder) error {
	size := e.vr.WordSize()
	if size == 0 {
		return fmt.Errorf("%w: %s has VR %v", ErrByteOrderNotApplicable, dicomtag.DebugString(e.tag), e.vr)
	}
	if order == nil {
		return errors.New("dicom: nil byte order")
	}
	if order != e.byteOrder {
		swapBytes(e.buffer, size)
	}
	e.byteOrder = order
	return nil
}

// swapBytes reverses every complete size-byte word of b.
func swapBytes(b []byte, size int) {
	for i := 0; i+size <= len(b); i += size {
		word := b[i : i+size]
		for l, r := 0, size-1; l < r; l, r = l+1, r-1 {
			word[l], word[r] = word[r], word[l]
		}
	}
}

// VM returns the actual value multiplicity. To get the multiplicity
// expected for a tag, use dicomtag.Find instead.
//
// For fixed-size VRs it is len(Buffer())/Size(), ignoring a trailing
// partial value. For multi-valued strings it counts backslash separated
// components after padding is stripped, so "A\" has VM 2 and a buffer of
// pure padding has VM 0. Other non-empty values have VM 1.
func (e *DataElement) VM() int {
	if len(e.buffer) == 0 {
		return 0
	}
	if size := e.vr.Size(); size > 0 {
		return len(e.buffer) / size
	}
	if e.vr.IsString() {
		s := trimPadding(string(e.buffer))
		if s == "" {
			return 0
		}
		if !e.vr.IsMultiValued() {
			return 1
		}
		return strings.Count(s, `\`) + 1
	}
	return 1
}

func trimPadding(s string) string {
	return strings.TrimRight(s, " \x00")
}

func (e *DataElement) checkVR(want dicomvr.VR) error {
	if e.vr != want {
		return fmt.Errorf("%w: %s has VR %v, accessor expects %v", ErrVRMismatch, dicomtag.DebugString(e.tag), e.vr, want)
	}
	return nil
}

func (e *DataElement) checkString() error {
	if !e.vr.IsString() {
		return fmt.Errorf("%w: %s has VR %v, accessor expects a string VR", ErrVRMismatch, dicomtag.DebugString(e.tag), e.vr)
	}
	return nil
}

// GetString returns the whole value with trailing padding removed. For
// multi-valued elements the backslashes are kept; see GetStringArray.
func (e *DataElement) GetString() (string, error) {
	if err := e.checkString(); err != nil {
		return "", err
	}
	return trimPadding(string(e.buffer)), nil
}

// MustGetString is similar to GetString, but panics on error.
func (e *DataElement) MustGetString() string {
	v, err := e.GetString()
	if err != nil {
		panic(err)
	}
	return v
}

// GetStringArray returns the backslash-separated values, each with trailing
// padding removed. An empty element yields an empty list.
func (e *DataElement) GetStringArray() ([]string, error) {
	s, err := e.GetString()
	if err != nil {
		return nil, err
	}
	if s == "" {
		return []string{}, nil
	}
	if !e.vr.IsMultiValued() {
		return []string{s}, nil
	}
	values := strings.Split(s, `\`)
	for i, v := range values {
		values[i] = trimPadding(v)
	}
	return values, nil
}

// SetString stores v, padded to an even length with the VR's pad byte.
func (e *DataElement) SetString(v string) error {
	if err := e.checkString(); err != nil {
		return err
	}
	e.install(padValue([]byte(v), e.vr.PadByte()))
	return nil
}

// SetStringArray joins values with backslashes and stores the result.
func (e *DataElement) SetStringArray(values []string) error {
	if err := e.checkString(); err != nil {
		return err
	}
	if len(values) > 1 && !e.vr.IsMultiValued() {
		return fmt.Errorf("%w: %d values for VR %v", ErrMultiplicity, len(values), e.vr)
	}
	e.install(padValue([]byte(strings.Join(values, `\`)), e.vr.PadByte()))
	return nil
}

func padValue(b []byte, pad byte) []byte {
	if len(b)%2 != 0 {
		b = append(b, pad)
	}
	return b
}

// GetDecodedString is like GetString but converts the bytes to UTF-8 with
// the data set's character set. PN component groups (separated by '=') use
// the alphabetic, ideographic and phonetic decoders in turn.
func (e *DataElement) GetDecodedString(cs dicomio.CodingSystem) (string, error) {
	if err := e.checkString(); err != nil {
		return "", err
	}
	raw := []byte(trimPadding(string(e.buffer)))
	if e.vr != dicomvr.PN {
		return cs.Decode(dicomio.IdeographicCodingSystem, raw)
	}
	groups := strings.SplitN(string(raw), "=", 3)
	for i, g := range groups {
		decoded, err := cs.Decode(dicomio.CodingSystemType(i), []byte(g))
		if err != nil {
			return "", err
		}
		groups[i] = decoded
	}
	return strings.Join(groups, "="), nil
}

// ElementLength returns the encoded size of the whole element: tag, VR
// code, length field and value. The value of a simple element is its buffer
// so "recursive" has no effect here; see SequenceElement.ElementLength.
func (e *DataElement) ElementLength(implicit dicomio.IsImplicitVR, recursive bool) uint32 {
	return headerLength(e.tag, e.vr, implicit) + uint32(len(e.buffer))
}

// headerLength returns the size of tag + (VR) + length field.
func headerLength(tag dicomtag.Tag, vr dicomvr.VR, implicit dicomio.IsImplicitVR) uint32 {
	if tag.Group == dicomtag.ItemSeqGroup || implicit == dicomio.ImplicitVR {
		return 8
	}
	if vr.IsLongLength() {
		return 12
	}
	return 8
}

// Copy returns a deep copy of e.
func (e *DataElement) Copy() *DataElement {
	c := *e
	if e.buffer != nil {
		c.buffer = append([]byte(nil), e.buffer...)
	}
	return &c
}

// valueString formats the value for String().
func (e *DataElement) valueString() string {
	switch e.vr.Category() {
	case dicomvr.CategoryString:
		if values, err := e.GetStringArray(); err == nil {
			return fmt.Sprintf("%v", values)
		}
	case dicomvr.CategoryInteger, dicomvr.CategoryFloat:
		if values, err := e.numbers(); err == nil {
			return fmt.Sprintf("%v", values)
		}
	}
	if e.vr == dicomvr.AT {
		if tags, err := e.GetTags(); err == nil {
			return fmt.Sprintf("%v", tags)
		}
	}
	if len(e.buffer) > 16 {
		return fmt.Sprintf("% x ...(%d bytes)", e.buffer[:16], len(e.buffer))
	}
	return fmt.Sprintf("[% x]", e.buffer)
}

func (e *DataElement) String() string {
	return elementString(e, 0)
}
