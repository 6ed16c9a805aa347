// Package dicomio provides the byte source and byte sink used to decode and
// encode low-level DICOM data types, such as integers, tags and strings.
package dicomio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrShortRead is reported when the source or the current limit runs out
// before a requested read is satisfied.
var ErrShortRead = errors.New("dicomio: short read")

// IsImplicitVR defines whether a 2-character VR code is emitted with each
// data element. P3.5 7.1.
type IsImplicitVR int

const (
	// ImplicitVR 编码一个没有VR code的data element
	// VR 从字典 (dicomtag.LookupVR) 读取
	ImplicitVR IsImplicitVR = iota

	// ExplicitVR 保存了2比特VR value inline w/ a data element
	ExplicitVR

	// UnknownVR is to be used when you never encode or decode DataElement.
	UnknownVR
)

func (v IsImplicitVR) String() string {
	switch v {
	case ImplicitVR:
		return "ImplicitVR"
	case ExplicitVR:
		return "ExplicitVR"
	}
	return "UnknownVR"
}

type transferSyntaxStackEntry struct {
	byteorder binary.ByteOrder
	implicit  IsImplicitVR
}

// Decoder 用来解码 low-level 的 dicom data 类型. Errors are sticky: after
// the first failure every read returns a zero value and Error() reports
// the first error.
type Decoder struct {
	in        *bufio.Reader
	err       error
	byteorder binary.ByteOrder

	// “implicit”不是由decoder内部使用，是让decoder的使用者可以看见当前的transfer syntax
	implicit IsImplicitVR

	// 可以读进的最大比特数 (absolute offset)
	limit int64

	// Cumulative # bytes read.
	pos int64

	scratch [8]byte

	// 旧transfer syntax栈，由{Push, Pop}TransferSyntax使用
	oldTransferSyntaxes []transferSyntaxStackEntry
	// 旧limit栈，由{Push, Pop}Limit使用, 以降序存储
	oldLimits []int64
}

// NewDecoder creates a decoder that reads from "in" until EOF.
func NewDecoder(in io.Reader, byteorder binary.ByteOrder, implicit IsImplicitVR) *Decoder {
	return &Decoder{
		in:        bufio.NewReader(in),
		byteorder: byteorder,
		implicit:  implicit,
		limit:     math.MaxInt64,
	}
}

// NewBytesDecoder 创建一个decoder来读取“a sequence of bytes”。
func NewBytesDecoder(data []byte, byteorder binary.ByteOrder, implicit IsImplicitVR) *Decoder {
	return NewDecoder(bytes.NewReader(data), byteorder, implicit)
}

// SetError records err as the decoder's error unless one is already set.
// The file offset is appended; the original error stays reachable through
// errors.Is / errors.As.
func (d *Decoder) SetError(err error) {
	if err != nil && d.err == nil {
		if err != io.EOF {
			err = fmt.Errorf("%w (file offset %d)", err, d.pos)
		}
		d.err = err
	}
}

// SetErrorf 与 SetError相似，但需要一个可打印的string
func (d *Decoder) SetErrorf(format string, args ...interface{}) {
	d.SetError(fmt.Errorf(format, args...))
}

// Error returns the first error encountered so far.
func (d *Decoder) Error() error { return d.err }

// TransferSyntax 返回目前的transfer syntax
func (d *Decoder) TransferSyntax() (byteorder binary.ByteOrder, implicit IsImplicitVR) {
	return d.byteorder, d.implicit
}

// PushTransferSyntax 暂时改变编码格式, PopTransferSyntax 恢复旧的编码格式
func (d *Decoder) PushTransferSyntax(byteorder binary.ByteOrder, implicit IsImplicitVR) {
	d.oldTransferSyntaxes = append(d.oldTransferSyntaxes, transferSyntaxStackEntry{d.byteorder, d.implicit})
	d.byteorder = byteorder
	d.implicit = implicit
}

// PopTransferSyntax 恢复最后一次调用PushTransferSyntax前的编码方式
func (d *Decoder) PopTransferSyntax() {
	e := d.oldTransferSyntaxes[len(d.oldTransferSyntaxes)-1]
	d.byteorder = e.byteorder
	d.implicit = e.implicit
	d.oldTransferSyntaxes = d.oldTransferSyntaxes[:len(d.oldTransferSyntaxes)-1]
}

// PushLimit bounds subsequent reads to the next "bytes" bytes until the
// matching PopLimit. The new limit must not extend past the current one.
func (d *Decoder) PushLimit(bytes int64) {
	newLimit := d.pos + bytes
	if bytes < 0 || newLimit > d.limit {
		d.SetErrorf("%w: trying to read %d bytes beyond buffer end", ErrShortRead, newLimit-d.limit)
		newLimit = d.pos
	}
	d.oldLimits = append(d.oldLimits, d.limit)
	d.limit = newLimit
}

// PopLimit restores the limit overridden by PushLimit. Unlike a lenient
// parser it does not skip unread bytes: if the bounded region was not fully
// consumed, that is recorded as an error.
func (d *Decoder) PopLimit() {
	if d.err == nil && d.pos < d.limit {
		d.SetErrorf("%d bytes left unread in bounded region", d.limit-d.pos)
	}
	last := len(d.oldLimits) - 1
	d.limit = d.oldLimits[last]
	d.oldLimits = d.oldLimits[:last]
}

// Finish 必须在使用decoder之后调用. 会返回在运行decoder中遇到的任何错误,
// 如果有data无法被处理 也会返回一个错误
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if !d.EOF() {
		return errors.New("dicomio: decoder found junk")
	}
	return nil
}

// Read implements io.Reader, honoring the current limit.
func (d *Decoder) Read(p []byte) (int, error) {
	desired := d.len()
	if desired == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	if desired < int64(len(p)) {
		p = p[:desired]
	}
	n, err := d.in.Read(p)
	if n >= 0 {
		d.pos += int64(n)
	}
	return n, err
}

// EOF 检查如果没有可读数据了. A source error other than io.EOF is
// recorded and also ends the data; check Error() afterwards.
func (d *Decoder) EOF() bool {
	if d.err != nil {
		return true
	}
	if d.limit-d.pos <= 0 {
		return true
	}
	data, err := d.in.Peek(1)
	if err != nil && err != io.EOF {
		// A failing source is not the end of the data.
		d.SetError(err)
		return true
	}
	return len(data) == 0
}

// Peek returns the next n bytes without consuming them. It returns fewer
// bytes if the source or the current limit holds less.
func (d *Decoder) Peek(n int) []byte {
	if int64(n) > d.len() {
		n = int(d.len())
	}
	data, _ := d.in.Peek(n)
	return data
}

// BytesRead returns the cumulative # of bytes read so far.
func (d *Decoder) BytesRead() int64 { return d.pos }

// len 返回 当前limit内剩余的bytes数
func (d *Decoder) len() int64 {
	return d.limit - d.pos
}

func (d *Decoder) fill(n int) []byte {
	buf := d.scratch[:n]
	if d.err != nil {
		return nil
	}
	if _, err := io.ReadFull(d, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = fmt.Errorf("%w: need %d bytes, %d available", ErrShortRead, n, d.len())
		}
		d.SetError(err)
		return nil
	}
	return buf
}

// ReadByte reads a single byte from the buffer. On EOF, it returns a junk
// value, and sets an error to be returned by Error() or Finish().
func (d *Decoder) ReadByte() (v byte) {
	if b := d.fill(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *Decoder) ReadUInt16() uint16 {
	if b := d.fill(2); b != nil {
		return d.byteorder.Uint16(b)
	}
	return 0
}

func (d *Decoder) ReadInt16() int16 {
	return int16(d.ReadUInt16())
}

func (d *Decoder) ReadUInt32() uint32 {
	if b := d.fill(4); b != nil {
		return d.byteorder.Uint32(b)
	}
	return 0
}

func (d *Decoder) ReadInt32() int32 {
	return int32(d.ReadUInt32())
}

func (d *Decoder) ReadFloat32() float32 {
	return math.Float32frombits(d.ReadUInt32())
}

func (d *Decoder) ReadFloat64() float64 {
	if b := d.fill(8); b != nil {
		return math.Float64frombits(d.byteorder.Uint64(b))
	}
	return 0
}

// ReadBytes reads exactly "length" bytes, or records ErrShortRead.
func (d *Decoder) ReadBytes(length int) []byte {
	if d.err != nil {
		return nil
	}
	if d.len() < int64(length) {
		d.SetErrorf("%w: ReadBytes requested %d, available %d", ErrShortRead, length, d.len())
		return nil
	}
	if length > maxEagerAlloc {
		// Large lengths are often corrupt; grow with the data actually read
		// instead of trusting the header.
		var buf bytes.Buffer
		if _, err := io.CopyN(&buf, d, int64(length)); err != nil {
			d.SetError(shortRead(err, length))
			return nil
		}
		return buf.Bytes()
	}
	v := make([]byte, length)
	if _, err := io.ReadFull(d, v); err != nil {
		d.SetError(shortRead(err, length))
		return nil
	}
	return v
}

// maxEagerAlloc is the largest value ReadBytes allocates up front.
const maxEagerAlloc = 1 << 24

func shortRead(err error, length int) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: requested %d bytes", ErrShortRead, length)
	}
	return err
}

func (d *Decoder) Skip(length int) {
	if d.len() < int64(length) {
		d.SetErrorf("%w: Skip requested %d, available %d", ErrShortRead, length, d.len())
		return
	}
	n, err := io.CopyN(io.Discard, d, int64(length))
	if err != nil {
		d.SetError(shortRead(err, length))
		return
	}
	DoAssert(n == int64(length), n, length)
}
