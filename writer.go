package dicom

import (
	"compress/flate"
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/odincare/dcmlite/dicomio"
	"github.com/odincare/dcmlite/dicomtag"
	"github.com/odincare/dcmlite/dicomvr"
	"github.com/sirupsen/logrus"
)

const (
	// DcmliteImplementationClassUID is written to (0002,0012) unless the
	// meta elements carry their own.
	DcmliteImplementationClassUID = "1.2.826.0.1.3680043.9.7133.1.1"
	// DcmliteImplementationVersionName is written to (0002,0013) unless the
	// meta elements carry their own.
	DcmliteImplementationVersionName = "DCMLITE_1_0"
)

// ErrValueTooLong is returned when a value does not fit the 16-bit length
// field of a short explicit VR.
var ErrValueTooLong = errors.New("dicom: value too long for 16-bit length field")

// WriteFileHeader produces a Dicom file header. metaElements[] is be a list of
// elements to be embedded in the header part. Every element in metaElements[]
// must have Tag.Group==2. It must contain at least the following three elements:
// TransferSyntaxUID, MediaStorageSOPClassUID, MediaStorageSOPInstanceUID.
// The list may contain other meta elements as long as their Tag.Group==2;
// they are added to the header
//
// Errors are reported via e.Error().
//
// Consult the following page for the Dicom file header format
// http://dicom.nema.org/dicom/2013/output/chtml/part10/chapter_7.html
func WriteFileHeader(e *dicomio.Encoder, metaElements []Element) {
	e.PushTransferSyntax(binary.LittleEndian, dicomio.ExplicitVR)
	defer e.PopTransferSyntax()

	subEncoder := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	tagsUsed := make(map[dicomtag.Tag]bool)
	tagsUsed[dicomtag.FileMetaInformationGroupLength] = true

	writeRequiredMetaElement := func(tag dicomtag.Tag) {
		if elem, err := FindElementByTag(metaElements, tag); err == nil {
			WriteElement(subEncoder, elem)
		} else {
			subEncoder.SetErrorf("%v not found in metaElements: %v", dicomtag.DebugString(tag), err)
		}
		tagsUsed[tag] = true
	}

	writeOptionalMetaElement := func(tag dicomtag.Tag, defaultValue *DataElement) {
		if elem, err := FindElementByTag(metaElements, tag); err == nil {
			WriteElement(subEncoder, elem)
		} else {
			WriteElement(subEncoder, defaultValue)
		}
		tagsUsed[tag] = true
	}

	version := NewDataElement(dicomtag.FileMetaInformationVersion, binary.LittleEndian)
	version.install([]byte{0, 1})
	writeOptionalMetaElement(dicomtag.FileMetaInformationVersion, version)
	writeRequiredMetaElement(dicomtag.MediaStorageSOPClassUID)
	writeRequiredMetaElement(dicomtag.MediaStorageSOPInstanceUID)
	writeRequiredMetaElement(dicomtag.TransferSyntaxUID)
	writeOptionalMetaElement(dicomtag.ImplementationClassUID,
		mustNewStringElement(dicomtag.ImplementationClassUID, DcmliteImplementationClassUID))
	writeOptionalMetaElement(dicomtag.ImplementationVersionName,
		mustNewStringElement(dicomtag.ImplementationVersionName, DcmliteImplementationVersionName))

	for _, elem := range metaElements {
		if elem.Tag().Group == dicomtag.MetadataGroup {
			if _, ok := tagsUsed[elem.Tag()]; !ok {
				WriteElement(subEncoder, elem)
			}
		}
	}

	if subEncoder.Error() != nil {
		e.SetError(subEncoder.Error())
		return
	}
	metaBytes := subEncoder.Bytes()

	e.WriteZeros(128)
	e.WriteString("DICM")

	groupLength := NewDataElement(dicomtag.FileMetaInformationGroupLength, binary.LittleEndian)
	if err := groupLength.SetUint32(uint32(len(metaBytes))); err != nil {
		e.SetError(err)
		return
	}
	WriteElement(e, groupLength)
	e.WriteBytes(metaBytes)
}

func mustNewStringElement(tag dicomtag.Tag, v string) *DataElement {
	elem := NewDataElement(tag, binary.LittleEndian)
	if err := elem.SetString(v); err != nil {
		logrus.Panic(err)
	}
	return elem
}

func encodeElementHeader(e *dicomio.Encoder, tag dicomtag.Tag, vr dicomvr.VR, vl uint32) {
	dicomio.DoAssert(vl == UndefinedLength || vl%2 == 0, vl)

	e.WriteUInt16(tag.Group)
	e.WriteUInt16(tag.Element)

	_, implicit := e.TransferSyntax()
	if tag.Group == dicomtag.ItemSeqGroup {
		implicit = dicomio.ImplicitVR
	}

	if implicit == dicomio.ExplicitVR {
		e.WriteString(vr.String())
		if vr.IsLongLength() {
			e.WriteZeros(2) // 2 bytes for "future use" (0000H)
			e.WriteUInt32(vl)
		} else {
			e.WriteUInt16(uint16(vl))
		}
	} else {
		dicomio.DoAssert(implicit == dicomio.ImplicitVR, implicit)
		e.WriteUInt32(vl)
	}
}

// WriteElement encodes one element in the encoder's transfer syntax.
// Errors are reported through e.Error().
func WriteElement(e *dicomio.Encoder, elem Element) {
	if err := Visit(elementWriter{e}, elem); err != nil {
		e.SetError(err)
	}
}

// elementWriter encodes each element variant. Its methods report errors
// through the encoder and always return nil.
type elementWriter struct {
	e *dicomio.Encoder
}

func (w elementWriter) VisitDataElement(elem *DataElement) error {
	e := w.e
	if elem.length == UndefinedLength {
		e.SetErrorf("%w: cannot encode %s without a value", ErrUndefinedLength, dicomtag.DebugString(elem.tag))
		return nil
	}

	byteOrder, implicit := e.TransferSyntax()
	value := elem.buffer
	if elem.vr.WordSize() > 0 && elem.byteOrder != byteOrder {
		c := elem.Copy()
		if err := c.SetByteOrder(byteOrder); err != nil {
			e.SetError(err)
			return nil
		}
		value = c.buffer
	}

	if implicit == dicomio.ExplicitVR && !elem.vr.IsLongLength() && len(value) > 0xffff {
		e.SetErrorf("%w: %s has %d bytes", ErrValueTooLong, dicomtag.DebugString(elem.tag), len(value))
		return nil
	}
	if implicit == dicomio.ImplicitVR {
		if entry, err := dicomtag.Find(elem.tag); err == nil && entry.VR != elem.vr && elem.tag != dicomtag.PixelData {
			logrus.Warnf("dicom.WriteElement: VR value mismatch for tag %s. Element.VR=%v, but DICOM standard defines VR to be %v (lost under implicit VR)",
				dicomtag.DebugString(elem.tag), elem.vr, entry.VR)
		}
	}

	encodeElementHeader(e, elem.tag, elem.vr, uint32(len(value)))
	e.WriteBytes(value)
	return nil
}

func (w elementWriter) VisitSequence(s *SequenceElement) error {
	e := w.e
	_, implicit := e.TransferSyntax()
	undefined := s.isUndefinedLength()

	length := UndefinedLength
	if !undefined {
		length = s.ValueLength(implicit)
	}
	encodeElementHeader(e, s.tag, s.vr, length)

	if s.vr == dicomvr.UN {
		e.PushTransferSyntax(binary.LittleEndian, dicomio.ImplicitVR)
	}
	for _, it := range s.Items {
		writeItem(e, it)
	}
	if s.vr == dicomvr.UN {
		e.PopTransferSyntax()
	}

	if undefined {
		encodeElementHeader(e, dicomtag.SequenceDelimitationItem, dicomvr.UN /*未使用*/, 0)
	}
	return nil
}

func writeItem(e *dicomio.Encoder, it *Item) {
	_, implicit := e.TransferSyntax()
	length := UndefinedLength
	if !it.UndefinedLength {
		length = it.ValueLength(implicit)
	}
	encodeElementHeader(e, dicomtag.Item, dicomvr.UN /*未使用*/, length)
	for _, elem := range it.Elements {
		WriteElement(e, elem)
	}
	if it.UndefinedLength {
		encodeElementHeader(e, dicomtag.ItemDelimitationItem, dicomvr.UN /*未使用*/, 0)
	}
}

func (w elementWriter) VisitEncapsulated(p *EncapsulatedElement) error {
	e := w.e
	encodeElementHeader(e, p.tag, p.vr, UndefinedLength)
	writeBasicOffsetTable(e, p.Offsets)
	for _, frame := range p.Fragments {
		if len(frame)%2 != 0 {
			e.SetErrorf("%w: fragment of %d bytes in %s", ErrOddLength, len(frame), dicomtag.DebugString(p.tag))
			return nil
		}
		writeRawItem(e, frame)
	}
	encodeElementHeader(e, dicomtag.SequenceDelimitationItem, dicomvr.UN /*未使用*/, 0)
	return nil
}

func writeRawItem(e *dicomio.Encoder, data []byte) {
	encodeElementHeader(e, dicomtag.Item, dicomvr.UN, uint32(len(data)))
	e.WriteBytes(data)
}

func writeBasicOffsetTable(e *dicomio.Encoder, offsets []uint32) {
	byteOrder, _ := e.TransferSyntax()
	subEncoder := dicomio.NewBytesEncoder(byteOrder, dicomio.ImplicitVR)
	for _, offset := range offsets {
		subEncoder.WriteUInt32(offset)
	}
	writeRawItem(e, subEncoder.Bytes())
}

// WriteDataSet writes the dataset into the stream in DICOM file format,
// complete with the magic header and metadata elements.
//
// The transfer syntax (byte order, etc) of the file is determined by the
// TransferSyntax element in "ds". If ds is missing that or a few other
// essential elements, this function returns an error.
//
//  ds := ... read or create dicom.Dataset ...
//  out, err := os.Create("test.dcm")
//  err := dicom.WriteDataSet(out, ds)
func WriteDataSet(out io.Writer, ds *DataSet) error {
	e := dicomio.NewEncoder(out, nil, dicomio.UnknownVR)
	var metaElems []Element
	for _, elem := range ds.Elements {
		if elem.Tag().Group == dicomtag.MetadataGroup {
			metaElems = append(metaElems, elem)
		}
	}
	WriteFileHeader(e, metaElems)
	if e.Error() != nil {
		return e.Error()
	}

	uid, err := ds.TransferSyntax()
	if err != nil {
		return err
	}

	body := e
	var fw *flate.Writer
	if dicomio.IsDeflated(uid) {
		if fw, err = flate.NewWriter(out, flate.DefaultCompression); err != nil {
			return err
		}
		body = dicomio.NewEncoderWithTransferSyntax(fw, uid)
	} else {
		endian, implicit, err := dicomio.ParseTransferSyntaxUID(uid)
		if err != nil {
			return err
		}
		e.PushTransferSyntax(endian, implicit)
		defer e.PopTransferSyntax()
	}
	for _, elem := range ds.Elements {
		if elem.Tag().Group != dicomtag.MetadataGroup {
			WriteElement(body, elem)
		}
	}
	if err := body.Error(); err != nil {
		return err
	}
	if fw != nil {
		return fw.Close()
	}
	return nil
}

// WriteDataSetToFile writes "ds" to the given file. If the file already exists,
// existing contents are clobbered. Else, the file is newly created.
func WriteDataSetToFile(path string, ds *DataSet) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteDataSet(out, ds); err != nil {
		out.Close() // nolint: errcheck
		return err
	}
	return out.Close()
}
