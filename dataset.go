package dicom

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/odincare/dcmlite/dicomio"
	"github.com/odincare/dcmlite/dicomtag"
	"github.com/odincare/dcmlite/dicomvr"
)

// DataSet 代表一个DICOM file 的全部 elements, in stream order. The meta
// group elements come first.
type DataSet struct {
	Elements []Element

	// CodingSystem 来自 SpecificCharacterSet (0008,0005). Pass it to
	// DataElement.GetDecodedString.
	CodingSystem dicomio.CodingSystem
}

// FindElementByName 寻找指定name的element
// 如“PatientName”
func (f *DataSet) FindElementByName(name string) (Element, error) {
	return FindElementByName(f.Elements, name)
}

// FindElementByTag finds an element from the dataset given its tag, such as
// Tag{0x0010, 0x0010}.
func (f *DataSet) FindElementByTag(tag dicomtag.Tag) (Element, error) {
	return FindElementByTag(f.Elements, tag)
}

// FindDataElement is FindElementByTag for simple elements. It fails if the
// element is a sequence or encapsulated data.
func (f *DataSet) FindDataElement(tag dicomtag.Tag) (*DataElement, error) {
	elem, err := f.FindElementByTag(tag)
	if err != nil {
		return nil, err
	}
	de, ok := elem.(*DataElement)
	if !ok {
		return nil, fmt.Errorf("dicom: %s is a %T, not a simple element", dicomtag.DebugString(tag), elem)
	}
	return de, nil
}

// TransferSyntax returns the UID stored in the meta group.
func (f *DataSet) TransferSyntax() (string, error) {
	elem, err := f.FindDataElement(dicomtag.TransferSyntaxUID)
	if err != nil {
		return "", err
	}
	return elem.GetString()
}

// FindElementByName finds an element with the given name in "elems". If
// not found, return an error.
func FindElementByName(elems []Element, name string) (Element, error) {
	t, err := dicomtag.FindByName(name)
	if err != nil {
		return nil, err
	}
	for _, elem := range elems {
		if elem.Tag() == t.Tag {
			return elem, nil
		}
	}
	return nil, fmt.Errorf("dicom: could not find element named '%s' in dicom file", name)
}

// FindElementByTag finds an element with the given tag in "elems". If not
// found, returns an error.
func FindElementByTag(elems []Element, tag dicomtag.Tag) (Element, error) {
	for _, elem := range elems {
		if elem.Tag() == tag {
			return elem, nil
		}
	}
	return nil, fmt.Errorf("dicom: could not find element %s in dicom file", dicomtag.DebugString(tag))
}

// DataSetBuilder is a ReadHandler that assembles the reported elements into
// a DataSet.
type DataSetBuilder struct {
	options ReadOptions
	ds      DataSet

	// open sequences, innermost last. A top-level sequence filtered out by
	// ReturnTags is still pushed so its items have somewhere to go.
	stack []*SequenceElement
}

// NewDataSetBuilder creates a builder. Only ReturnTags of options is used;
// the stop conditions belong to the Reader.
func NewDataSetBuilder(options ReadOptions) *DataSetBuilder {
	return &DataSetBuilder{options: options}
}

// DataSet returns the elements collected so far.
func (b *DataSetBuilder) DataSet() *DataSet {
	return &b.ds
}

// keep reports whether a top-level element passes ReturnTags. Meta
// elements are always kept since the transfer syntax lives there.
func (b *DataSetBuilder) keep(tag dicomtag.Tag) bool {
	return b.options.ReturnTags == nil || tag.IsMetaElement() || tagInList(tag, b.options.ReturnTags)
}

func (b *DataSetBuilder) add(elem Element) error {
	if len(b.stack) == 0 {
		if b.keep(elem.Tag()) {
			b.ds.Elements = append(b.ds.Elements, elem)
		}
		return nil
	}
	seq := b.stack[len(b.stack)-1]
	if len(seq.Items) == 0 {
		return fmt.Errorf("dicom: %s reported outside an item of %s", dicomtag.DebugString(elem.Tag()), dicomtag.DebugString(seq.tag))
	}
	it := seq.Items[len(seq.Items)-1]
	it.Elements = append(it.Elements, elem)
	return nil
}

func (b *DataSetBuilder) OnElement(elem *DataElement) error {
	if elem.tag == dicomtag.SpecificCharacterSet && len(b.stack) == 0 {
		// SpecificCharacterSet 也许会出现在一个SQ中, 在这种情况下这个 charset
		// 只作用于该 item. Only the top-level one is tracked.
		encodingNames, err := elem.GetStringArray()
		if err != nil {
			return err
		}
		cs, err := dicomio.ParseSpecificCharacterSet(encodingNames)
		if err != nil {
			return err
		}
		b.ds.CodingSystem = cs
	}
	return b.add(elem)
}

func (b *DataSetBuilder) OnSequenceStart(tag dicomtag.Tag, vr dicomvr.VR, length uint32) error {
	seq := &SequenceElement{tag: tag, vr: vr, UndefinedLength: length == UndefinedLength}
	if err := b.add(seq); err != nil {
		return err
	}
	b.stack = append(b.stack, seq)
	return nil
}

func (b *DataSetBuilder) OnSequenceEnd(tag dicomtag.Tag) error {
	if len(b.stack) == 0 || b.stack[len(b.stack)-1].tag != tag {
		return fmt.Errorf("dicom: unbalanced end of sequence %s", dicomtag.DebugString(tag))
	}
	b.stack = b.stack[:len(b.stack)-1]
	return nil
}

func (b *DataSetBuilder) OnItemStart(length uint32) error {
	if len(b.stack) == 0 {
		return fmt.Errorf("dicom: item outside a sequence")
	}
	seq := b.stack[len(b.stack)-1]
	seq.Items = append(seq.Items, &Item{UndefinedLength: length == UndefinedLength})
	return nil
}

func (b *DataSetBuilder) OnItemEnd() error { return nil }

func (b *DataSetBuilder) OnEncapsulated(elem *EncapsulatedElement) error {
	return b.add(elem)
}

// ReadDataSet 用io读取dicom file. On error no data set is returned.
func ReadDataSet(in io.Reader, options ReadOptions) (*DataSet, error) {
	b := NewDataSetBuilder(options)
	if err := NewReader(b, options).Read(in); err != nil {
		return nil, err
	}
	return b.DataSet(), nil
}

// ReadDataSetInBytes is ReadDataSet for an in-memory file.
func ReadDataSetInBytes(data []byte, options ReadOptions) (*DataSet, error) {
	return ReadDataSet(bytes.NewReader(data), options)
}

// ReadDataSetFromFile 读取文件内容到 DataSet. 是一层ReadDataSet的包装
func ReadDataSetFromFile(path string, options ReadOptions) (*DataSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	ds, err := ReadDataSet(file, options)
	if e := file.Close(); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func tagInList(tag dicomtag.Tag, tags []dicomtag.Tag) bool {
	for _, t := range tags {
		if tag == t {
			return true
		}
	}
	return false
}
