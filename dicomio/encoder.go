package dicomio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
)

// Encoder is the byte sink used for encoding low-level DICOM data types.
// Like Decoder, errors are sticky and reported by Error().
type Encoder struct {
	err error

	out io.Writer

	byteorder binary.ByteOrder

	// implicit不是内部方法 而是给user查看当前是implicit的transfer syntax
	implicit IsImplicitVR

	scratch [8]byte

	// Stack of old transfer syntaxes. {Push, Pop}TransferSyntax使用.
	oldTransferSyntaxes []transferSyntaxStackEntry
}

// NewBytesEncoder创建一个新的encoder，数据会写入缓冲区
// 可以通过Bytes()来取得
func NewBytesEncoder(byteorder binary.ByteOrder, implicit IsImplicitVR) *Encoder {
	return &Encoder{
		out:       &bytes.Buffer{},
		byteorder: byteorder,
		implicit:  implicit,
	}
}

// NewEncoder creates a new encoder that writes to "out"
func NewEncoder(out io.Writer, byteorder binary.ByteOrder, implicit IsImplicitVR) *Encoder {
	return &Encoder{
		out:       out,
		byteorder: byteorder,
		implicit:  implicit,
	}
}

// NewEncoderWithTransferSyntax 与NewEncoder相似, 但需要传一个transfer syntax UID.
func NewEncoderWithTransferSyntax(out io.Writer, transferSyntaxUID string) *Encoder {
	endian, implicit, err := ParseTransferSyntaxUID(transferSyntaxUID)
	if err == nil {
		return NewEncoder(out, endian, implicit)
	}
	e := NewEncoder(out, binary.LittleEndian, ExplicitVR)
	e.SetErrorf("%v: unknown transfer syntax uid", transferSyntaxUID)
	return e
}

// TransferSyntax returns the current transfer syntax
func (e *Encoder) TransferSyntax() (binary.ByteOrder, IsImplicitVR) {
	return e.byteorder, e.implicit
}

// PushTransferSyntax 暂时改变编码格式, PopTransferSyntax 来恢复
func (e *Encoder) PushTransferSyntax(byteorder binary.ByteOrder, implicit IsImplicitVR) {
	e.oldTransferSyntaxes = append(e.oldTransferSyntaxes,
		transferSyntaxStackEntry{e.byteorder, e.implicit})
	e.byteorder = byteorder
	e.implicit = implicit
}

// PopTransferSyntax 与PushTransferSyntax对应
func (e *Encoder) PopTransferSyntax() {
	ts := e.oldTransferSyntaxes[len(e.oldTransferSyntaxes)-1]
	e.byteorder = ts.byteorder
	e.implicit = ts.implicit
	e.oldTransferSyntaxes = e.oldTransferSyntaxes[:len(e.oldTransferSyntaxes)-1]
}

// SetError sets the error to be reported by future Error() calls. Only the
// first error is kept.
func (e *Encoder) SetError(err error) {
	if err != nil && e.err == nil {
		e.err = err
	}
}

// SetErrorf is similar to SetError, but takes a printf format string
func (e *Encoder) SetErrorf(format string, args ...interface{}) {
	e.SetError(fmt.Errorf(format, args...))
}

// Error 返回一个由SetError设置的error，如果SetError没有被使用，则返回nil
func (e *Encoder) Error() error {
	return e.err
}

// Bytes returns the encoded data
//
// 须知: Encoder 由 NewBytesEncoder 创建而不是 NewEncoder
// 须知: e.Error() == nil
func (e *Encoder) Bytes() []byte {
	DoAssert(len(e.oldTransferSyntaxes) == 0)
	if e.err != nil {
		logrus.Panic(e.err)
	}
	return e.out.(*bytes.Buffer).Bytes()
}

// WriteBytes copies the given data to output.
func (e *Encoder) WriteBytes(v []byte) {
	if e.err != nil {
		return
	}
	if _, err := e.out.Write(v); err != nil {
		e.SetError(err)
	}
}

func (e *Encoder) WriteByte(v byte) {
	e.scratch[0] = v
	e.WriteBytes(e.scratch[:1])
}

func (e *Encoder) WriteUInt16(v uint16) {
	e.byteorder.PutUint16(e.scratch[:2], v)
	e.WriteBytes(e.scratch[:2])
}

func (e *Encoder) WriteUInt32(v uint32) {
	e.byteorder.PutUint32(e.scratch[:4], v)
	e.WriteBytes(e.scratch[:4])
}

func (e *Encoder) WriteInt16(v int16) { e.WriteUInt16(uint16(v)) }

func (e *Encoder) WriteInt32(v int32) { e.WriteUInt32(uint32(v)) }

func (e *Encoder) WriteFloat32(v float32) { e.WriteUInt32(math.Float32bits(v)) }

func (e *Encoder) WriteFloat64(v float64) {
	e.byteorder.PutUint64(e.scratch[:8], math.Float64bits(v))
	e.WriteBytes(e.scratch[:8])
}

// WriteString writes the string, without any length prefix or padding.
func (e *Encoder) WriteString(v string) {
	e.WriteBytes([]byte(v))
}

// WriteZeros encodes an array of zero bytes.
func (e *Encoder) WriteZeros(n int) {
	e.WriteBytes(make([]byte, n))
}

// DoAssert panics through logrus when an internal invariant is broken.
func DoAssert(condition bool, values ...interface{}) {
	if !condition {
		var s string
		for _, value := range values {
			s += fmt.Sprintf("%v ", value)
		}
		logrus.Panic("dicomio: assertion failed: " + s)
	}
}
