package dicom

import (
	"compress/flate"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/odincare/dcmlite/dicomio"
	"github.com/odincare/dcmlite/dicomlog"
	"github.com/odincare/dcmlite/dicomtag"
	"github.com/odincare/dcmlite/dicomuid"
	"github.com/odincare/dcmlite/dicomvr"
)

var (
	// ErrMagicNotFound is returned when the 4 bytes after the preamble are
	// not "DICM".
	ErrMagicNotFound = errors.New("dicom: keyword 'DICM' not found in the header")
	// ErrUndefinedLength is returned when an element whose VR does not allow
	// it carries the undefined length.
	ErrUndefinedLength = errors.New("dicom: undefined length not allowed")
	// ErrUnexpectedTag is returned when an item or delimiter tag appears
	// where it cannot.
	ErrUnexpectedTag = errors.New("dicom: unexpected tag")
	// ErrMissingDelimiter is returned when the stream ends inside an
	// undefined-length sequence or item.
	ErrMissingDelimiter = errors.New("dicom: missing delimitation item")
	// ErrByteOrderMismatch is returned when the first tag of the main data
	// set only makes sense in the other byte order.
	ErrByteOrderMismatch = errors.New("dicom: byte order does not match transfer syntax")
	// ErrNoTransferSyntax is returned when the meta group lacks (0002,0010).
	ErrNoTransferSyntax = errors.New("dicom: TransferSyntaxUID not found in the header")

	// errStop ends the top-level loop without failing the read.
	errStop = errors.New("dicom: stop")
)

// scope is the kind of region read() is looping over. It decides which
// structural tags may appear and what ends the loop.
type scope int

const (
	scopeTop      scope = iota // main data set; ends at EOF
	scopeMeta                  // file meta group; ends at its group length
	scopeItem                  // item body; ends at its length or ItemDelimitationItem
	scopeSequence              // sequence body; ends at its length or SequenceDelimitationItem
)

func (s scope) String() string {
	switch s {
	case scopeTop:
		return "data set"
	case scopeMeta:
		return "meta group"
	case scopeItem:
		return "item"
	case scopeSequence:
		return "sequence"
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

// Reader decodes a DICOM stream and reports what it finds to a
// ReadHandler. A Reader is not safe for concurrent use; create one per
// stream.
type Reader struct {
	handler ReadHandler
	options ReadOptions

	transferSyntaxUID string
	byteOrder         binary.ByteOrder
	implicit          dicomio.IsImplicitVR
}

// NewReader creates a Reader that reports to handler.
func NewReader(handler ReadHandler, options ReadOptions) *Reader {
	return &Reader{handler: handler, options: options}
}

// TransferSyntax returns the transfer syntax found in the meta group of the
// last stream read. The byte order is nil before the header was parsed.
func (r *Reader) TransferSyntax() (uid string, byteOrder binary.ByteOrder, implicit dicomio.IsImplicitVR) {
	return r.transferSyntaxUID, r.byteOrder, r.implicit
}

// ReadFile opens path and reads it. The file is always closed.
func (r *Reader) ReadFile(path string) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return r.Read(f)
}

// Read decodes a complete DICOM file from in: the preamble, the meta group
// and the main data set. It returns nil once the stream ends cleanly or a
// ReadOptions stop condition is met.
func (r *Reader) Read(in io.Reader) error {
	r.transferSyntaxUID, r.byteOrder, r.implicit = "", nil, dicomio.UnknownVR

	d := dicomio.NewDecoder(in, binary.LittleEndian, dicomio.ExplicitVR)
	if err := r.readHeader(d); err != nil {
		return err
	}
	byteOrder, implicit, err := dicomio.ParseTransferSyntaxUID(r.transferSyntaxUID)
	if err != nil {
		return err
	}
	r.byteOrder, r.implicit = byteOrder, implicit
	dicomlog.Vprintf(1, "dicom.Reader: transfer syntax %s, %v, %v",
		dicomuid.UIDString(r.transferSyntaxUID), byteOrder, implicit)

	body := d
	if dicomio.IsDeflated(r.transferSyntaxUID) {
		fr := flate.NewReader(d)
		defer fr.Close()
		body = dicomio.NewDecoder(fr, byteOrder, implicit)
	} else {
		d.PushTransferSyntax(byteOrder, implicit)
		defer d.PopTransferSyntax()
	}
	if _, err := r.read(body, scopeTop, UndefinedLength, true); err != nil && !errors.Is(err, errStop) {
		return err
	}
	return nil
}

// readHeader consumes the preamble, the magic word and the file meta
// group, which is always explicit VR little endian. P3.10 7.1.
func (r *Reader) readHeader(d *dicomio.Decoder) error {
	d.Skip(128)
	magic := d.ReadBytes(4)
	if err := d.Error(); err != nil {
		return fmt.Errorf("dicom: reading preamble: %w", err)
	}
	if string(magic) != "DICM" {
		return ErrMagicNotFound
	}

	if peekTag(d, binary.LittleEndian) == dicomtag.FileMetaInformationGroupLength {
		elem, err := r.readElement(d, readTag(d))
		if err != nil {
			return err
		}
		length, err := elem.GetUint32()
		if err != nil {
			return fmt.Errorf("dicom: reading FileMetaInformationGroupLength: %w", err)
		}
		if _, err := r.read(d, scopeMeta, length, false); err != nil {
			return err
		}
	} else {
		// The group length is required, but some writers omit it. Read
		// for as long as the next tag belongs to group 0002.
		dicomlog.Vprintf(1, "dicom.Reader: FileMetaInformationGroupLength missing")
		for peekTag(d, binary.LittleEndian).Group == dicomtag.MetadataGroup {
			if _, err := r.readElement(d, readTag(d)); err != nil {
				return err
			}
		}
	}
	if r.transferSyntaxUID == "" {
		return ErrNoTransferSyntax
	}
	return nil
}

// read loops over the elements of one region and returns the number of
// bytes consumed. maxLength bounds the region unless it is
// UndefinedLength, in which case the region ends at EOF (scopeTop) or at
// its delimitation item. checkEndian enables the byte order sanity check
// on the first tag.
func (r *Reader) read(d *dicomio.Decoder, sc scope, maxLength uint32, checkEndian bool) (uint32, error) {
	start := d.BytesRead()
	bounded := maxLength != UndefinedLength
	if bounded {
		d.PushLimit(int64(maxLength))
	}
	err := r.readRegion(d, sc, bounded, checkEndian)
	if bounded {
		d.PopLimit()
		if err == nil {
			err = d.Error()
		}
	}
	return uint32(d.BytesRead() - start), err
}

func (r *Reader) readRegion(d *dicomio.Decoder, sc scope, bounded, checkEndian bool) error {
	for first := true; ; first = false {
		if err := d.Error(); err != nil {
			return err
		}
		if d.EOF() {
			if err := d.Error(); err != nil {
				return err
			}
			if bounded || sc == scopeTop {
				return nil
			}
			return fmt.Errorf("%w: stream ended inside an undefined-length %v (file offset %d)",
				ErrMissingDelimiter, sc, d.BytesRead())
		}
		offset := d.BytesRead()
		tag := readTag(d)
		if err := d.Error(); err != nil {
			return err
		}
		if first && checkEndian {
			if err := checkByteOrder(d, tag); err != nil {
				return err
			}
		}
		switch tag {
		case dicomtag.Item:
			if sc != scopeSequence {
				return fmt.Errorf("%w: %s in %v (file offset %d)", ErrUnexpectedTag, dicomtag.DebugString(tag), sc, offset)
			}
			if err := r.readItem(d); err != nil {
				return err
			}
		case dicomtag.ItemDelimitationItem, dicomtag.SequenceDelimitationItem:
			if (sc != scopeItem || tag != dicomtag.ItemDelimitationItem) &&
				(sc != scopeSequence || tag != dicomtag.SequenceDelimitationItem) {
				return fmt.Errorf("%w: %s in %v (file offset %d)", ErrUnexpectedTag, dicomtag.DebugString(tag), sc, offset)
			}
			if vl := d.ReadUInt32(); d.Error() == nil && vl != 0 {
				dicomlog.WithOffset(offset).Warnf("dicom.Reader: %s has length %d, expected 0", dicomtag.DebugString(tag), vl)
			}
			return d.Error()
		default:
			if sc == scopeSequence {
				return fmt.Errorf("%w: %s in %v, expected an item (file offset %d)", ErrUnexpectedTag, dicomtag.DebugString(tag), sc, offset)
			}
			if sc == scopeTop && r.options.stopAt(tag) {
				dicomlog.Vprintf(1, "dicom.Reader: stopping at %s", dicomtag.DebugString(tag))
				return errStop
			}
			if _, err := r.readElement(d, tag); err != nil {
				return err
			}
		}
	}
}

// checkByteOrder rejects a first tag whose group only looks plausible
// after swapping, e.g. 0x0800 instead of 0x0008. Main data set groups
// start at 0x0008.
func checkByteOrder(d *dicomio.Decoder, tag dicomtag.Tag) error {
	swapped := tag.Group>>8 | tag.Group<<8
	if tag.Group > 0x00ff && swapped <= 0x00ff {
		byteOrder, _ := d.TransferSyntax()
		return fmt.Errorf("%w: first tag %v read as %v (file offset %d)", ErrByteOrderMismatch, tag, byteOrder, d.BytesRead()-4)
	}
	return nil
}

func (r *Reader) readItem(d *dicomio.Decoder) error {
	length := d.ReadUInt32()
	if err := d.Error(); err != nil {
		return err
	}
	if err := r.handler.OnItemStart(length); err != nil {
		return err
	}
	if _, err := r.read(d, scopeItem, length, false); err != nil {
		return err
	}
	return r.handler.OnItemEnd()
}

// readElement reads the element whose tag was just consumed and reports it
// to the handler. It returns the element if it is a simple one, or nil for
// sequences and encapsulated data.
func (r *Reader) readElement(d *dicomio.Decoder, tag dicomtag.Tag) (*DataElement, error) {
	offset := d.BytesRead() - 4
	var vr dicomvr.VR
	var length uint32
	if _, implicit := d.TransferSyntax(); implicit == dicomio.ImplicitVR {
		vr, length = readImplicit(d, tag)
	} else {
		vr, length = readExplicit(d, tag)
	}
	if err := d.Error(); err != nil {
		return nil, err
	}
	dicomlog.Vprintf(2, "dicom.Reader: %s %v length=%d (file offset %d)", dicomtag.DebugString(tag), vr, length, offset)

	if vr == dicomvr.SQ || (vr == dicomvr.UN && length == UndefinedLength) {
		return nil, r.readSequence(d, tag, vr, length)
	}
	if length == UndefinedLength {
		if !vr.AllowsUndefinedLength() {
			return nil, fmt.Errorf("%w: %s has VR %v (file offset %d)", ErrUndefinedLength, dicomtag.DebugString(tag), vr, offset)
		}
		return nil, r.readEncapsulated(d, tag, vr)
	}
	if length%2 != 0 {
		return nil, fmt.Errorf("%w: %s has length %d (file offset %d)", ErrOddLength, dicomtag.DebugString(tag), length, offset)
	}

	byteOrder, _ := d.TransferSyntax()
	elem := NewDataElementWithVR(tag, vr, byteOrder)
	value := d.ReadBytes(int(length))
	if err := d.Error(); err != nil {
		return nil, err
	}
	elem.install(value)
	if tag == dicomtag.TransferSyntaxUID {
		if uid, err := elem.GetString(); err == nil {
			r.transferSyntaxUID = uid
		}
	}
	return elem, r.handler.OnElement(elem)
}

// readSequence reads the items of an SQ element, or of an undefined-length
// UN element which is always implicit VR little endian. P3.5 6.2.2.
func (r *Reader) readSequence(d *dicomio.Decoder, tag dicomtag.Tag, vr dicomvr.VR, length uint32) error {
	if err := r.handler.OnSequenceStart(tag, vr, length); err != nil {
		return err
	}
	if vr == dicomvr.UN {
		d.PushTransferSyntax(binary.LittleEndian, dicomio.ImplicitVR)
		defer d.PopTransferSyntax()
	}
	if _, err := r.read(d, scopeSequence, length, false); err != nil {
		return err
	}
	return r.handler.OnSequenceEnd(tag)
}

// readEncapsulated reads undefined-length OB/OW data: a basic offset table
// item, fragment items, then a SequenceDelimitationItem. P3.5 A.4.
func (r *Reader) readEncapsulated(d *dicomio.Decoder, tag dicomtag.Tag, vr dicomvr.VR) error {
	elem := &EncapsulatedElement{tag: tag, vr: vr}
	byteOrder, _ := d.TransferSyntax()
	for first := true; ; first = false {
		offset := d.BytesRead()
		itemTag := readTag(d)
		length := d.ReadUInt32()
		if err := d.Error(); err != nil {
			return err
		}
		if itemTag == dicomtag.SequenceDelimitationItem {
			break
		}
		if itemTag != dicomtag.Item {
			return fmt.Errorf("%w: %s in encapsulated %s (file offset %d)",
				ErrUnexpectedTag, dicomtag.DebugString(itemTag), dicomtag.DebugString(tag), offset)
		}
		if length == UndefinedLength {
			return fmt.Errorf("%w: encapsulated item of %s (file offset %d)", ErrUndefinedLength, dicomtag.DebugString(tag), offset)
		}
		data := d.ReadBytes(int(length))
		if err := d.Error(); err != nil {
			return err
		}
		if first {
			elem.Offsets = decodeOffsets(data, byteOrder)
		} else {
			elem.Fragments = append(elem.Fragments, data)
		}
	}
	return r.handler.OnEncapsulated(elem)
}

func decodeOffsets(data []byte, byteOrder binary.ByteOrder) []uint32 {
	var offsets []uint32
	for i := 0; i+4 <= len(data); i += 4 {
		offsets = append(offsets, byteOrder.Uint32(data[i:]))
	}
	return offsets
}

func readTag(d *dicomio.Decoder) dicomtag.Tag {
	group := d.ReadUInt16()
	element := d.ReadUInt16()
	return dicomtag.Tag{Group: group, Element: element}
}

// peekTag returns the next tag without consuming it, or the zero tag if
// fewer than 4 bytes remain.
func peekTag(d *dicomio.Decoder, byteOrder binary.ByteOrder) dicomtag.Tag {
	b := d.Peek(4)
	if len(b) < 4 {
		return dicomtag.Tag{}
	}
	return dicomtag.Tag{Group: byteOrder.Uint16(b), Element: byteOrder.Uint16(b[2:])}
}

// readImplicit reads the length of an implicit VR element and looks the VR
// up in the dictionary. P3.5 7.1.3.
func readImplicit(d *dicomio.Decoder, tag dicomtag.Tag) (dicomvr.VR, uint32) {
	vr := dicomtag.LookupVR(tag)
	if tag == dicomtag.PixelData {
		// P3.5 A.1: native pixel data is OW under implicit VR.
		vr = dicomvr.OW
	}
	return vr, d.ReadUInt32()
}

// readExplicit reads the VR code and the 2- or 4-byte length of an explicit
// VR element. P3.5 7.1.2.
func readExplicit(d *dicomio.Decoder, tag dicomtag.Tag) (dicomvr.VR, uint32) {
	code := string(d.ReadBytes(2))
	if d.Error() != nil {
		return dicomvr.UN, 0
	}
	vr, err := dicomvr.Parse(code)
	if err != nil {
		dicomlog.WithOffset(d.BytesRead()-2).Warnf("dicom.Reader: %s has unknown VR %q, using UN", dicomtag.DebugString(tag), code)
		vr = dicomvr.UN
	}
	if vr.IsLongLength() {
		d.Skip(2)
		return vr, d.ReadUInt32()
	}
	return vr, uint32(d.ReadUInt16())
}
