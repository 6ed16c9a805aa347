package dicom

import (
	"fmt"
	"strings"

	"github.com/odincare/dcmlite/dicomio"
	"github.com/odincare/dcmlite/dicomtag"
	"github.com/odincare/dcmlite/dicomvr"
)

// Element is one entry of a data set. It is implemented by exactly three
// types:
//
//   - *DataElement: tag, VR and a flat value buffer.
//   - *SequenceElement: an SQ element holding a list of *Item.
//   - *EncapsulatedElement: undefined-length OB/OW data, e.g. compressed
//     PixelData, stored as raw fragments.
//
// Use a type switch, or Visit with a Visitor, to tell them apart.
type Element interface {
	Tag() dicomtag.Tag
	VR() dicomvr.VR

	// ElementLength returns the encoded size of the element, including its
	// header, under the given VR encoding.
	ElementLength(implicit dicomio.IsImplicitVR, recursive bool) uint32

	String() string

	element()
}

// Item is one entry of a sequence: a nested list of elements.
type Item struct {
	Elements []Element

	// UndefinedLength is true if the item is terminated by an
	// ItemDelimitationItem rather than prefixed by its byte length.
	UndefinedLength bool
}

// FindElementByTag finds an element of the item given its tag.
func (it *Item) FindElementByTag(tag dicomtag.Tag) (Element, error) {
	return FindElementByTag(it.Elements, tag)
}

// ValueLength returns the encoded size of the item's elements, excluding
// the item header and delimiter.
func (it *Item) ValueLength(implicit dicomio.IsImplicitVR) uint32 {
	var n uint32
	for _, elem := range it.Elements {
		n += elem.ElementLength(implicit, true)
	}
	return n
}

// ElementLength returns the encoded size of the item including its header
// and, for undefined-length items, the delimitation item.
func (it *Item) ElementLength(implicit dicomio.IsImplicitVR) uint32 {
	n := 8 + it.ValueLength(implicit)
	if it.UndefinedLength {
		n += 8
	}
	return n
}

// SequenceElement is an element with VR SQ.
type SequenceElement struct {
	tag   dicomtag.Tag
	vr    dicomvr.VR
	Items []*Item

	// UndefinedLength is true if the sequence is terminated by a
	// SequenceDelimitationItem rather than prefixed by its byte length.
	UndefinedLength bool
}

// NewSequenceElement creates an SQ element holding the given items.
func NewSequenceElement(tag dicomtag.Tag, items ...*Item) *SequenceElement {
	return &SequenceElement{tag: tag, vr: dicomvr.SQ, Items: items}
}

func (s *SequenceElement) element() {}

// Tag returns the sequence's tag.
func (s *SequenceElement) Tag() dicomtag.Tag { return s.tag }

// VR is SQ, or UN for an undefined-length UN element parsed as a sequence.
func (s *SequenceElement) VR() dicomvr.VR { return s.vr }

// ValueLength is the byte length of all items, as written in the sequence
// header when the length is defined. Items of a UN sequence are always
// counted as implicit VR.
func (s *SequenceElement) ValueLength(implicit dicomio.IsImplicitVR) uint32 {
	if s.vr == dicomvr.UN {
		implicit = dicomio.ImplicitVR
	}
	var n uint32
	for _, it := range s.Items {
		n += it.ElementLength(implicit)
	}
	return n
}

// ElementLength returns the encoded size of the sequence. Without
// "recursive" only the header is counted, because a sequence has no flat
// buffer; with it the nested items and delimiters are summed.
func (s *SequenceElement) ElementLength(implicit dicomio.IsImplicitVR, recursive bool) uint32 {
	n := headerLength(s.tag, dicomvr.SQ, implicit)
	if !recursive {
		return n
	}
	n += s.ValueLength(implicit)
	if s.isUndefinedLength() {
		n += 8
	}
	return n
}

// isUndefinedLength reports whether the sequence is encoded with a
// delimiter. UN sequences always are, since a defined-length UN element
// reads back as opaque bytes.
func (s *SequenceElement) isUndefinedLength() bool {
	return s.UndefinedLength || s.vr == dicomvr.UN
}

func (s *SequenceElement) String() string {
	return elementString(s, 0)
}

// EncapsulatedElement holds undefined-length OB/OW data as a sequence of
// fragments, the way compressed PixelData is stored. P3.5 A.4.
type EncapsulatedElement struct {
	tag dicomtag.Tag
	vr  dicomvr.VR

	// Offsets is the basic offset table found in the first item. It may
	// be empty.
	Offsets []uint32
	// Fragments are the payloads of the items after the offset table.
	Fragments [][]byte
}

// NewEncapsulatedElement creates encapsulated data with an OB VR.
func NewEncapsulatedElement(tag dicomtag.Tag, offsets []uint32, fragments ...[]byte) *EncapsulatedElement {
	return &EncapsulatedElement{tag: tag, vr: dicomvr.OB, Offsets: offsets, Fragments: fragments}
}

func (p *EncapsulatedElement) element() {}

// Tag returns the element's tag.
func (p *EncapsulatedElement) Tag() dicomtag.Tag { return p.tag }

// VR returns OB or OW.
func (p *EncapsulatedElement) VR() dicomvr.VR { return p.vr }

// ElementLength counts the header, the offset table item, each fragment
// item and the closing delimiter.
func (p *EncapsulatedElement) ElementLength(implicit dicomio.IsImplicitVR, recursive bool) uint32 {
	n := headerLength(p.tag, p.vr, implicit) + 8 + 4*uint32(len(p.Offsets))
	for _, f := range p.Fragments {
		n += 8 + uint32(len(f))
	}
	return n + 8
}

func (p *EncapsulatedElement) String() string {
	return elementString(p, 0)
}

// Visitor receives one call per element variant.
type Visitor interface {
	VisitDataElement(e *DataElement) error
	VisitSequence(s *SequenceElement) error
	VisitEncapsulated(p *EncapsulatedElement) error
}

// Visit dispatches elem to the matching Visitor method. It does not
// descend into sequence items; VisitSequence implementations do that if
// they need to.
func Visit(v Visitor, elem Element) error {
	switch e := elem.(type) {
	case *DataElement:
		return v.VisitDataElement(e)
	case *SequenceElement:
		return v.VisitSequence(e)
	case *EncapsulatedElement:
		return v.VisitEncapsulated(e)
	}
	panic(fmt.Sprintf("dicom: unknown element type %T", elem))
}

func elementString(elem Element, nestLevel int) string {
	indent := strings.Repeat(" ", nestLevel)
	s := fmt.Sprintf("%s %s %s ", indent, dicomtag.DebugString(elem.Tag()), elem.VR())
	switch e := elem.(type) {
	case *DataElement:
		if e.length == UndefinedLength {
			s += "u "
		}
		sv := e.valueString()
		if len(sv) > 1024 {
			sv = sv[:1024] + "(...)"
		}
		s += sv
	case *SequenceElement:
		if e.UndefinedLength {
			s += "u "
		}
		s += fmt.Sprintf("(#%d)[\n", len(e.Items))
		for i, it := range e.Items {
			s += fmt.Sprintf("%s  item %d (#%d)[\n", indent, i, len(it.Elements))
			for _, sub := range it.Elements {
				s += elementString(sub, nestLevel+4) + "\n"
			}
			s += indent + "  ]\n"
		}
		s += indent + " ]"
	case *EncapsulatedElement:
		s += fmt.Sprintf("u offsets=%v fragments=%d", e.Offsets, len(e.Fragments))
	}
	return s
}
