package dicom

import (
	"github.com/odincare/dcmlite/dicomtag"
	"github.com/odincare/dcmlite/dicomvr"
)

// ReadHandler receives the decoded stream from a Reader. Simple elements
// arrive fully decoded; sequences are reported as nested Start/End calls so
// a handler can build a tree or process the stream without the Reader
// retaining anything.
//
// Any error returned by a handler method aborts the read and is returned
// by Reader.Read.
type ReadHandler interface {
	// OnElement is called once per simple element, meta elements
	// included. The handler may keep elem.
	OnElement(elem *DataElement) error

	// OnSequenceStart is called when an SQ element header is read. length
	// may be UndefinedLength.
	OnSequenceStart(tag dicomtag.Tag, vr dicomvr.VR, length uint32) error
	OnSequenceEnd(tag dicomtag.Tag) error

	// OnItemStart and OnItemEnd bracket the elements of one sequence item.
	OnItemStart(length uint32) error
	OnItemEnd() error

	// OnEncapsulated is called for undefined-length OB/OW elements such as
	// compressed PixelData.
	OnEncapsulated(elem *EncapsulatedElement) error
}

// NopHandler implements ReadHandler by ignoring every call. Embed it to
// implement only some of the methods.
type NopHandler struct{}

func (NopHandler) OnElement(*DataElement) error                        { return nil }
func (NopHandler) OnSequenceStart(dicomtag.Tag, dicomvr.VR, uint32) error { return nil }
func (NopHandler) OnSequenceEnd(dicomtag.Tag) error                     { return nil }
func (NopHandler) OnItemStart(uint32) error                             { return nil }
func (NopHandler) OnItemEnd() error                                     { return nil }
func (NopHandler) OnEncapsulated(*EncapsulatedElement) error             { return nil }

// ReadOptions定义DataSets和Element的读取格式
type ReadOptions struct {
	// DropPixelData 会让读取在遇到 PixelData (bulk image) 时停止
	DropPixelData bool

	// ReturnTags 是一系列tag白名单. Only top-level elements with these
	// tags are kept by DataSetBuilder; nil keeps everything.
	ReturnTags []dicomtag.Tag

	// StopAtTag 使程序在遇到 tag >= StopAtTag 的 top-level element 时停止读取.
	// Neither option applies inside sequences.
	StopAtTag *dicomtag.Tag
}

func (o ReadOptions) stopAt(tag dicomtag.Tag) bool {
	if o.DropPixelData && tag == dicomtag.PixelData {
		return true
	}
	return o.StopAtTag != nil && tag.Compare(*o.StopAtTag) >= 0
}
