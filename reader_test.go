package dicom

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/odincare/dcmlite/dicomio"
	"github.com/odincare/dcmlite/dicomtag"
	"github.com/odincare/dcmlite/dicomuid"
	"github.com/odincare/dcmlite/dicomvr"
	"github.com/stretchr/testify/require"
)

// recorder logs every ReadHandler call.
type recorder struct {
	events       []string
	elems        []*DataElement
	encapsulated []*EncapsulatedElement
}

func (r *recorder) OnElement(elem *DataElement) error {
	r.events = append(r.events, "element "+elem.Tag().String())
	r.elems = append(r.elems, elem)
	return nil
}

func (r *recorder) OnSequenceStart(tag dicomtag.Tag, vr dicomvr.VR, length uint32) error {
	r.events = append(r.events, fmt.Sprintf("sequence %v %v", tag, vr))
	return nil
}

func (r *recorder) OnSequenceEnd(dicomtag.Tag) error {
	r.events = append(r.events, "end sequence")
	return nil
}

func (r *recorder) OnItemStart(uint32) error {
	r.events = append(r.events, "item")
	return nil
}

func (r *recorder) OnItemEnd() error {
	r.events = append(r.events, "end item")
	return nil
}

func (r *recorder) OnEncapsulated(elem *EncapsulatedElement) error {
	r.events = append(r.events, "encapsulated "+elem.Tag().String())
	r.encapsulated = append(r.encapsulated, elem)
	return nil
}

// mainEvents drops the meta group events.
func (r *recorder) mainEvents() []string {
	var events []string
	for _, ev := range r.events {
		if !strings.HasPrefix(ev, "element (0002,") {
			events = append(events, ev)
		}
	}
	return events
}

func fileHeader(t *testing.T, transferSyntaxUID string) []byte {
	e := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	WriteFileHeader(e, []Element{
		mustNewStringElement(dicomtag.MediaStorageSOPClassUID, dicomuid.CTImageStorage),
		mustNewStringElement(dicomtag.MediaStorageSOPInstanceUID, "1.2.3.4"),
		mustNewStringElement(dicomtag.TransferSyntaxUID, transferSyntaxUID),
	})
	require.NoError(t, e.Error())
	return e.Bytes()
}

func newUint16Element(tag dicomtag.Tag, v uint16) *DataElement {
	e := NewDataElement(tag, binary.LittleEndian)
	if err := e.SetUint16(v); err != nil {
		panic(err)
	}
	return e
}

func TestReadUndefinedLengthSequence(t *testing.T) {
	e := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	uid := mustNewStringElement(dicomtag.ReferencedSOPInstanceUID, "1.2")
	for i := 0; i < 2; i++ {
		encodeElementHeader(e, dicomtag.Item, dicomvr.UN, uid.ElementLength(dicomio.ExplicitVR, true))
		WriteElement(e, uid)
	}
	encodeElementHeader(e, dicomtag.SequenceDelimitationItem, dicomvr.UN, 0)
	// Bytes after the delimiter belong to the enclosing data set.
	WriteElement(e, newUint16Element(dicomtag.Rows, 512))
	require.NoError(t, e.Error())
	data := e.Bytes()

	rec := &recorder{}
	r := NewReader(rec, ReadOptions{})
	d := dicomio.NewBytesDecoder(data, binary.LittleEndian, dicomio.ExplicitVR)
	n, err := r.read(d, scopeSequence, UndefinedLength, false)
	require.NoError(t, err)
	require.Equal(t, uint32(2*(8+12)+8), n)
	require.Equal(t, []string{
		"item", "element (0008,1155)", "end item",
		"item", "element (0008,1155)", "end item",
	}, rec.events)
	require.Equal(t, "1.2", rec.elems[1].MustGetString())
}

func TestReadDefinedLengthSequence(t *testing.T) {
	uid := mustNewStringElement(dicomtag.ReferencedSOPInstanceUID, "1.2")
	seq := NewSequenceElement(dicomtag.ReferencedImageSequence, &Item{Elements: []Element{uid}})
	e := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	WriteElement(e, seq)
	WriteElement(e, newUint16Element(dicomtag.Rows, 512))
	data := e.Bytes()

	rec := &recorder{}
	r := NewReader(rec, ReadOptions{})
	n, err := r.read(dicomio.NewBytesDecoder(data, binary.LittleEndian, dicomio.ExplicitVR), scopeTop, UndefinedLength, true)
	require.NoError(t, err)
	require.Equal(t, uint32(len(data)), n)
	require.Equal(t, []string{
		"sequence (0008,1140) SQ", "item", "element (0008,1155)", "end item", "end sequence",
		"element (0028,0010)",
	}, rec.events)
}

func TestReadSequenceBoundMidElement(t *testing.T) {
	e := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	encodeElementHeader(e, dicomtag.ReferencedImageSequence, dicomvr.SQ, 10)
	encodeElementHeader(e, dicomtag.Item, dicomvr.UN, 12)
	WriteElement(e, mustNewStringElement(dicomtag.ReferencedSOPInstanceUID, "1.2"))

	r := NewReader(&recorder{}, ReadOptions{})
	_, err := r.read(dicomio.NewBytesDecoder(e.Bytes(), binary.LittleEndian, dicomio.ExplicitVR), scopeTop, UndefinedLength, false)
	require.Error(t, err)
	require.True(t, errors.Is(err, dicomio.ErrShortRead))
}

func TestReadImplicitTransferSyntax(t *testing.T) {
	body := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ImplicitVR)
	WriteElement(body, newUint16Element(dicomtag.Rows, 512))
	data := append(fileHeader(t, dicomuid.ImplicitVRLittleEndian), body.Bytes()...)

	rec := &recorder{}
	r := NewReader(rec, ReadOptions{})
	require.NoError(t, r.Read(bytes.NewReader(data)))

	uid, byteOrder, implicit := r.TransferSyntax()
	require.Equal(t, dicomuid.ImplicitVRLittleEndian, uid)
	require.Equal(t, binary.LittleEndian, byteOrder)
	require.Equal(t, dicomio.ImplicitVR, implicit)

	rows := rec.elems[len(rec.elems)-1]
	require.Equal(t, dicomtag.Rows, rows.Tag())
	require.Equal(t, dicomvr.US, rows.VR())
	require.Equal(t, uint16(512), rows.MustGetUint16())
}

func TestReadExplicitBigEndian(t *testing.T) {
	body := dicomio.NewBytesEncoder(binary.BigEndian, dicomio.ExplicitVR)
	WriteElement(body, newUint16Element(dicomtag.Rows, 0x0102))
	data := append(fileHeader(t, dicomuid.ExplicitVRBigEndian), body.Bytes()...)

	rec := &recorder{}
	require.NoError(t, NewReader(rec, ReadOptions{}).Read(bytes.NewReader(data)))
	rows := rec.elems[len(rec.elems)-1]
	require.Equal(t, binary.BigEndian, rows.ByteOrder())
	require.Equal(t, []byte{0x01, 0x02}, rows.Buffer())
	require.Equal(t, uint16(0x0102), rows.MustGetUint16())
}

func TestReadMetaWithoutGroupLength(t *testing.T) {
	e := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	e.WriteZeros(128)
	e.WriteString("DICM")
	WriteElement(e, mustNewStringElement(dicomtag.TransferSyntaxUID, dicomuid.ImplicitVRLittleEndian))
	e.PushTransferSyntax(binary.LittleEndian, dicomio.ImplicitVR)
	WriteElement(e, mustNewStringElement(dicomtag.PatientID, "ID01"))
	e.PopTransferSyntax()

	rec := &recorder{}
	require.NoError(t, NewReader(rec, ReadOptions{}).Read(bytes.NewReader(e.Bytes())))
	require.Equal(t, []string{"element (0002,0010)", "element (0010,0020)"}, rec.events)
	require.Equal(t, "ID01", rec.elems[1].MustGetString())
}

func TestReadBadMagic(t *testing.T) {
	data := append(make([]byte, 128), []byte("DICX")...)
	err := NewReader(&recorder{}, ReadOptions{}).Read(bytes.NewReader(data))
	require.True(t, errors.Is(err, ErrMagicNotFound))

	err = NewReader(&recorder{}, ReadOptions{}).Read(bytes.NewReader(make([]byte, 64)))
	require.True(t, errors.Is(err, dicomio.ErrShortRead))
}

func TestReadTruncated(t *testing.T) {
	data := fileHeader(t, dicomuid.ExplicitVRLittleEndian)
	data = append(data, 0x28, 0x00, 0x10, 0x00, 'U', 'S', 0x02, 0x00, 0x01)
	err := NewReader(&recorder{}, ReadOptions{}).Read(bytes.NewReader(data))
	require.True(t, errors.Is(err, dicomio.ErrShortRead))
}

func TestReadUndefinedLengthString(t *testing.T) {
	body := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ImplicitVR)
	encodeElementHeader(body, dicomtag.PatientID, dicomvr.LO, UndefinedLength)
	body.WriteString("ID01")
	data := append(fileHeader(t, dicomuid.ImplicitVRLittleEndian), body.Bytes()...)

	err := NewReader(&recorder{}, ReadOptions{}).Read(bytes.NewReader(data))
	require.True(t, errors.Is(err, ErrUndefinedLength))
}

func TestReadOddLength(t *testing.T) {
	data := fileHeader(t, dicomuid.ExplicitVRLittleEndian)
	data = append(data, 0x10, 0x00, 0x20, 0x00, 'L', 'O', 0x03, 0x00, 'A', 'B', 'C')
	err := NewReader(&recorder{}, ReadOptions{}).Read(bytes.NewReader(data))
	require.True(t, errors.Is(err, ErrOddLength))
}

type failingSource struct{ err error }

func (s failingSource) Read([]byte) (int, error) { return 0, s.err }

func TestReadSourceError(t *testing.T) {
	errDisk := errors.New("disk failure")
	body := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	WriteElement(body, newUint16Element(dicomtag.Rows, 512))
	data := append(fileHeader(t, dicomuid.ExplicitVRLittleEndian), body.Bytes()...)

	// The source fails at an element boundary of the main data set.
	rec := &recorder{}
	err := NewReader(rec, ReadOptions{}).Read(io.MultiReader(bytes.NewReader(data), failingSource{errDisk}))
	require.True(t, errors.Is(err, errDisk))
	require.Equal(t, []string{"element (0028,0010)"}, rec.mainEvents())

	// Inside an undefined-length sequence the source error wins over the
	// missing delimiter.
	body = dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	encodeElementHeader(body, dicomtag.ReferencedImageSequence, dicomvr.SQ, UndefinedLength)
	data = append(fileHeader(t, dicomuid.ExplicitVRLittleEndian), body.Bytes()...)
	err = NewReader(&recorder{}, ReadOptions{}).Read(io.MultiReader(bytes.NewReader(data), failingSource{errDisk}))
	require.True(t, errors.Is(err, errDisk))
	require.False(t, errors.Is(err, ErrMissingDelimiter))
}

func TestReadMissingDelimiter(t *testing.T) {
	body := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	encodeElementHeader(body, dicomtag.ReferencedImageSequence, dicomvr.SQ, UndefinedLength)
	encodeElementHeader(body, dicomtag.Item, dicomvr.UN, UndefinedLength)
	WriteElement(body, mustNewStringElement(dicomtag.ReferencedSOPInstanceUID, "1.2"))
	data := append(fileHeader(t, dicomuid.ExplicitVRLittleEndian), body.Bytes()...)

	rec := &recorder{}
	err := NewReader(rec, ReadOptions{}).Read(bytes.NewReader(data))
	require.True(t, errors.Is(err, ErrMissingDelimiter))
}

func TestReadUnexpectedTag(t *testing.T) {
	body := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	WriteElement(body, mustNewStringElement(dicomtag.PatientID, "ID01"))
	encodeElementHeader(body, dicomtag.Item, dicomvr.UN, 0)
	data := append(fileHeader(t, dicomuid.ExplicitVRLittleEndian), body.Bytes()...)
	err := NewReader(&recorder{}, ReadOptions{}).Read(bytes.NewReader(data))
	require.True(t, errors.Is(err, ErrUnexpectedTag))

	// A sequence may only hold items.
	seq := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	encodeElementHeader(seq, dicomtag.ReferencedImageSequence, dicomvr.SQ, UndefinedLength)
	WriteElement(seq, mustNewStringElement(dicomtag.PatientID, "ID01"))
	data = append(fileHeader(t, dicomuid.ExplicitVRLittleEndian), seq.Bytes()...)
	err = NewReader(&recorder{}, ReadOptions{}).Read(bytes.NewReader(data))
	require.True(t, errors.Is(err, ErrUnexpectedTag))
}

func TestReadByteOrderMismatch(t *testing.T) {
	body := dicomio.NewBytesEncoder(binary.BigEndian, dicomio.ExplicitVR)
	WriteElement(body, mustNewStringElement(dicomtag.SOPClassUID, dicomuid.CTImageStorage))
	data := append(fileHeader(t, dicomuid.ExplicitVRLittleEndian), body.Bytes()...)
	err := NewReader(&recorder{}, ReadOptions{}).Read(bytes.NewReader(data))
	require.True(t, errors.Is(err, ErrByteOrderMismatch))
}

func TestReadUndefinedLengthUN(t *testing.T) {
	tag := dicomtag.Tag{Group: 0x0009, Element: 0x1010}
	e := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	encodeElementHeader(e, tag, dicomvr.UN, UndefinedLength)
	e.PushTransferSyntax(binary.LittleEndian, dicomio.ImplicitVR)
	encodeElementHeader(e, dicomtag.Item, dicomvr.UN, UndefinedLength)
	WriteElement(e, mustNewStringElement(dicomtag.PatientID, "AB"))
	encodeElementHeader(e, dicomtag.ItemDelimitationItem, dicomvr.UN, 0)
	encodeElementHeader(e, dicomtag.SequenceDelimitationItem, dicomvr.UN, 0)
	e.PopTransferSyntax()
	WriteElement(e, newUint16Element(dicomtag.Rows, 1))

	rec := &recorder{}
	r := NewReader(rec, ReadOptions{})
	_, err := r.read(dicomio.NewBytesDecoder(e.Bytes(), binary.LittleEndian, dicomio.ExplicitVR), scopeTop, UndefinedLength, false)
	require.NoError(t, err)
	require.Equal(t, []string{
		"sequence (0009,1010) UN", "item", "element (0010,0020)", "end item", "end sequence",
		"element (0028,0010)",
	}, rec.events)
	require.Equal(t, dicomvr.LO, rec.elems[0].VR())
	require.Equal(t, "AB", rec.elems[0].MustGetString())
	require.Equal(t, dicomvr.US, rec.elems[1].VR())
}

func TestWriteUNSequence(t *testing.T) {
	seq := &SequenceElement{tag: dicomtag.Tag{Group: 0x0009, Element: 0x1010}, vr: dicomvr.UN, Items: []*Item{
		{Elements: []Element{mustNewStringElement(dicomtag.PatientID, "AB")}},
	}}
	e := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	WriteElement(e, seq)
	require.NoError(t, e.Error())
	require.Equal(t, int(seq.ElementLength(dicomio.ExplicitVR, true)), len(e.Bytes()))

	rec := &recorder{}
	r := NewReader(rec, ReadOptions{})
	n, err := r.read(dicomio.NewBytesDecoder(e.Bytes(), binary.LittleEndian, dicomio.ExplicitVR), scopeTop, UndefinedLength, false)
	require.NoError(t, err)
	require.Equal(t, uint32(len(e.Bytes())), n)
	require.Equal(t, []string{
		"sequence (0009,1010) UN", "item", "element (0010,0020)", "end item", "end sequence",
	}, rec.events)
	require.Equal(t, dicomvr.LO, rec.elems[0].VR())
}

func TestReadEncapsulated(t *testing.T) {
	body := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	WriteElement(body, NewEncapsulatedElement(dicomtag.PixelData, []uint32{0}, []byte{1, 2, 3, 4}, []byte{5, 6}))
	data := append(fileHeader(t, dicomuid.JPEGBaseline8Bit), body.Bytes()...)

	rec := &recorder{}
	require.NoError(t, NewReader(rec, ReadOptions{}).Read(bytes.NewReader(data)))
	require.Equal(t, []string{"encapsulated (7fe0,0010)"}, rec.mainEvents())
	p := rec.encapsulated[0]
	require.Equal(t, dicomvr.OB, p.VR())
	require.Equal(t, []uint32{0}, p.Offsets)
	require.Equal(t, [][]byte{{1, 2, 3, 4}, {5, 6}}, p.Fragments)
}

func TestReadStopOptions(t *testing.T) {
	body := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	WriteElement(body, mustNewStringElement(dicomtag.PatientID, "ID01"))
	WriteElement(body, newUint16Element(dicomtag.Rows, 8))
	pixels := NewDataElement(dicomtag.PixelData, binary.LittleEndian)
	require.NoError(t, pixels.SetBuffer([]byte{1, 2}))
	WriteElement(body, pixels)
	data := append(fileHeader(t, dicomuid.ExplicitVRLittleEndian), body.Bytes()...)

	rec := &recorder{}
	require.NoError(t, NewReader(rec, ReadOptions{DropPixelData: true}).Read(bytes.NewReader(data)))
	require.Equal(t, []string{"element (0010,0020)", "element (0028,0010)"}, rec.mainEvents())

	rec = &recorder{}
	require.NoError(t, NewReader(rec, ReadOptions{StopAtTag: &dicomtag.Rows}).Read(bytes.NewReader(data)))
	require.Equal(t, []string{"element (0010,0020)"}, rec.mainEvents())
}

type failingHandler struct {
	recorder
}

var errHandler = errors.New("handler failed")

func (h *failingHandler) OnItemStart(uint32) error { return errHandler }

func TestReadHandlerError(t *testing.T) {
	seq := NewSequenceElement(dicomtag.ReferencedImageSequence, &Item{})
	body := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	WriteElement(body, seq)
	data := append(fileHeader(t, dicomuid.ExplicitVRLittleEndian), body.Bytes()...)
	err := NewReader(&failingHandler{}, ReadOptions{}).Read(bytes.NewReader(data))
	require.True(t, errors.Is(err, errHandler))
}
