package dicom

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/odincare/dcmlite/dicomtag"
	"github.com/odincare/dcmlite/dicomvr"
)

// number is the set of Go types backing the binary numeric VRs.
type number interface {
	uint16 | int16 | uint32 | int32 | uint64 | int64 | float32 | float64
}

// getNumbers decodes VM() values of T from the buffer, in the element's
// byte order. vr is the only VR that T may be read from.
func getNumbers[T number](e *DataElement, vr dicomvr.VR) ([]T, error) {
	if err := e.checkVR(vr); err != nil {
		return nil, err
	}
	values := make([]T, e.VM())
	if len(values) == 0 {
		return values, nil
	}
	if err := binary.Read(bytes.NewReader(e.buffer), e.byteOrder, values); err != nil {
		return nil, fmt.Errorf("dicom: decoding %s: %w", dicomtag.DebugString(e.tag), err)
	}
	return values, nil
}

func getNumber[T number](e *DataElement, vr dicomvr.VR) (T, error) {
	var zero T
	values, err := getNumbers[T](e, vr)
	if err != nil {
		return zero, err
	}
	if len(values) == 0 {
		return zero, fmt.Errorf("%w: %s", ErrNoValue, dicomtag.DebugString(e.tag))
	}
	return values[0], nil
}

// setNumbers replaces the buffer with values encoded in the element's byte
// order. Every numeric VR is at least 2 bytes wide, so the result is even.
func setNumbers[T number](e *DataElement, vr dicomvr.VR, values []T) error {
	if err := e.checkVR(vr); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, e.byteOrder, values); err != nil {
		return fmt.Errorf("dicom: encoding %s: %w", dicomtag.DebugString(e.tag), err)
	}
	e.install(buf.Bytes())
	return nil
}

// numbers decodes the value of any integer or float VR, for printing.
func (e *DataElement) numbers() (interface{}, error) {
	switch e.vr {
	case dicomvr.US:
		return e.GetUint16Array()
	case dicomvr.SS:
		return e.GetInt16Array()
	case dicomvr.UL:
		return e.GetUint32Array()
	case dicomvr.SL:
		return e.GetInt32Array()
	case dicomvr.UV:
		return e.GetUint64Array()
	case dicomvr.SV:
		return e.GetInt64Array()
	case dicomvr.FL:
		return e.GetFloat32Array()
	case dicomvr.FD:
		return e.GetFloat64Array()
	}
	return nil, e.checkVR(dicomvr.US)
}

// US (Unsigned Short)

func (e *DataElement) GetUint16() (uint16, error) { return getNumber[uint16](e, dicomvr.US) }

func (e *DataElement) GetUint16Array() ([]uint16, error) { return getNumbers[uint16](e, dicomvr.US) }

func (e *DataElement) SetUint16(v uint16) error { return setNumbers(e, dicomvr.US, []uint16{v}) }

func (e *DataElement) SetUint16Array(values []uint16) error { return setNumbers(e, dicomvr.US, values) }

// MustGetUint16 is similar to GetUint16, but panics on error.
func (e *DataElement) MustGetUint16() uint16 {
	v, err := e.GetUint16()
	if err != nil {
		panic(err)
	}
	return v
}

// SS (Signed Short)

func (e *DataElement) GetInt16() (int16, error) { return getNumber[int16](e, dicomvr.SS) }

func (e *DataElement) GetInt16Array() ([]int16, error) { return getNumbers[int16](e, dicomvr.SS) }

func (e *DataElement) SetInt16(v int16) error { return setNumbers(e, dicomvr.SS, []int16{v}) }

func (e *DataElement) SetInt16Array(values []int16) error { return setNumbers(e, dicomvr.SS, values) }

// UL (Unsigned Long)

func (e *DataElement) GetUint32() (uint32, error) { return getNumber[uint32](e, dicomvr.UL) }

func (e *DataElement) GetUint32Array() ([]uint32, error) { return getNumbers[uint32](e, dicomvr.UL) }

func (e *DataElement) SetUint32(v uint32) error { return setNumbers(e, dicomvr.UL, []uint32{v}) }

func (e *DataElement) SetUint32Array(values []uint32) error { return setNumbers(e, dicomvr.UL, values) }

// MustGetUint32 is similar to GetUint32, but panics on error.
func (e *DataElement) MustGetUint32() uint32 {
	v, err := e.GetUint32()
	if err != nil {
		panic(err)
	}
	return v
}

// SL (Signed Long)

func (e *DataElement) GetInt32() (int32, error) { return getNumber[int32](e, dicomvr.SL) }

func (e *DataElement) GetInt32Array() ([]int32, error) { return getNumbers[int32](e, dicomvr.SL) }

func (e *DataElement) SetInt32(v int32) error { return setNumbers(e, dicomvr.SL, []int32{v}) }

func (e *DataElement) SetInt32Array(values []int32) error { return setNumbers(e, dicomvr.SL, values) }

// UV (Unsigned 64-bit Very Long)

func (e *DataElement) GetUint64() (uint64, error) { return getNumber[uint64](e, dicomvr.UV) }

func (e *DataElement) GetUint64Array() ([]uint64, error) { return getNumbers[uint64](e, dicomvr.UV) }

func (e *DataElement) SetUint64(v uint64) error { return setNumbers(e, dicomvr.UV, []uint64{v}) }

func (e *DataElement) SetUint64Array(values []uint64) error { return setNumbers(e, dicomvr.UV, values) }

// SV (Signed 64-bit Very Long)

func (e *DataElement) GetInt64() (int64, error) { return getNumber[int64](e, dicomvr.SV) }

func (e *DataElement) GetInt64Array() ([]int64, error) { return getNumbers[int64](e, dicomvr.SV) }

func (e *DataElement) SetInt64(v int64) error { return setNumbers(e, dicomvr.SV, []int64{v}) }

func (e *DataElement) SetInt64Array(values []int64) error { return setNumbers(e, dicomvr.SV, values) }

// FL (Floating Point Single)

func (e *DataElement) GetFloat32() (float32, error) { return getNumber[float32](e, dicomvr.FL) }

func (e *DataElement) GetFloat32Array() ([]float32, error) { return getNumbers[float32](e, dicomvr.FL) }

func (e *DataElement) SetFloat32(v float32) error { return setNumbers(e, dicomvr.FL, []float32{v}) }

func (e *DataElement) SetFloat32Array(values []float32) error {
	return setNumbers(e, dicomvr.FL, values)
}

// FD (Floating Point Double)

func (e *DataElement) GetFloat64() (float64, error) { return getNumber[float64](e, dicomvr.FD) }

func (e *DataElement) GetFloat64Array() ([]float64, error) { return getNumbers[float64](e, dicomvr.FD) }

func (e *DataElement) SetFloat64(v float64) error { return setNumbers(e, dicomvr.FD, []float64{v}) }

func (e *DataElement) SetFloat64Array(values []float64) error {
	return setNumbers(e, dicomvr.FD, values)
}

// AT (Attribute Tag)

// GetTags returns the tags stored in an AT element. Each tag is a pair of
// 16-bit words in the element's byte order.
func (e *DataElement) GetTags() ([]dicomtag.Tag, error) {
	if err := e.checkVR(dicomvr.AT); err != nil {
		return nil, err
	}
	tags := make([]dicomtag.Tag, e.VM())
	for i := range tags {
		word := e.buffer[i*4:]
		tags[i] = dicomtag.Tag{Group: e.byteOrder.Uint16(word), Element: e.byteOrder.Uint16(word[2:])}
	}
	return tags, nil
}

// SetTags stores tags in an AT element.
func (e *DataElement) SetTags(tags []dicomtag.Tag) error {
	if err := e.checkVR(dicomvr.AT); err != nil {
		return err
	}
	b := make([]byte, 4*len(tags))
	for i, t := range tags {
		e.byteOrder.PutUint16(b[i*4:], t.Group)
		e.byteOrder.PutUint16(b[i*4+2:], t.Element)
	}
	e.install(b)
	return nil
}
