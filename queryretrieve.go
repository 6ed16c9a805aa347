package dicom

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/odincare/dcmlite/dicomtag"
	"github.com/odincare/dcmlite/dicomvr"
)

// 查询检查dataset是否符合QR condition "filter"。
// 如果是，就返回<true, 匹配的element, nil>
// 如果 "filter" 要求一个通用匹配(universal match) i.e. 空查询 empty query value 且 element的filter.Tag不存在，函数返回<true, nil, nil>
// 如果”filter“有误(malformed)，函数返回<false, nil, err reason>
//
// A *SequenceElement filter matches if some item of the data set's sequence
// matches every element of the filter's first item. P3.4 C.2.2.2.6.
func Query(ds *DataSet, f Element) (match bool, matchedElement Element, err error) {
	return queryElements(ds.Elements, f)
}

func queryElements(elems []Element, f Element) (bool, Element, error) {
	if f.Tag() == dicomtag.QueryRetrieveLevel || f.Tag() == dicomtag.SpecificCharacterSet {
		return true, nil, nil
	}
	elem, err := FindElementByTag(elems, f.Tag())
	if err != nil {
		elem = nil
	}

	var match bool
	switch filter := f.(type) {
	case *DataElement:
		match, err = queryElement(elem, filter)
	case *SequenceElement:
		match, err = querySequence(elem, filter)
	default:
		return false, nil, fmt.Errorf("dicom: cannot query with %T filter %v", f, f)
	}
	if match {
		return true, elem, nil
	}
	return false, nil, err
}

func queryElement(elem Element, f *DataElement) (match bool, err error) {
	if f.VM() > 1 && f.vr != dicomvr.UI {
		// 过滤器不能包含多个值 P3.4 C2.2.2.1
		return false, fmt.Errorf("dicom: multiple values found in filter '%v'", f)
	}
	if isEmptyQuery(f) {
		// 通用匹配 一个空格代表通配符
		return true, nil
	}
	if elem == nil {
		return false, nil
	}
	e, ok := elem.(*DataElement)
	if !ok || f.vr != e.vr {
		return false, fmt.Errorf("dicom: VR mismatch: filter %v, value %v", f, elem)
	}

	switch {
	case f.vr == dicomvr.UI:
		// 判断element的filter是否至少包含一个uid
		expected, _ := f.GetStringArray()
		values, _ := e.GetStringArray()
		for _, x := range expected {
			for _, v := range values {
				if v == x {
					return true, nil
				}
			}
		}
		return false, nil
	case f.vr.IsString():
		pattern, _ := f.GetString()
		values, _ := e.GetStringArray()
		for _, v := range values {
			ok, err := matchString(f.vr, pattern, v)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	case f.vr.Size() > 0:
		return matchNumber(e, f), nil
	}
	return bytes.Equal(f.buffer, e.buffer), nil
}

// matchNumber reports whether any value of e equals the single value of f.
// Both are compared as little endian words.
func matchNumber(e, f *DataElement) bool {
	size := f.vr.Size()
	want := f.Copy()
	got := e.Copy()
	if want.SetByteOrder(binary.LittleEndian) != nil || got.SetByteOrder(binary.LittleEndian) != nil {
		return bytes.Equal(want.buffer, got.buffer)
	}
	for i := 0; i+size <= len(got.buffer); i += size {
		if bytes.Equal(got.buffer[i:i+size], want.buffer[:size]) {
			return true
		}
	}
	return false
}

func querySequence(elem Element, f *SequenceElement) (match bool, err error) {
	if len(f.Items) == 0 || len(f.Items[0].Elements) == 0 {
		return true, nil
	}
	seq, ok := elem.(*SequenceElement)
	if !ok {
		if elem == nil {
			return false, nil
		}
		return false, fmt.Errorf("dicom: VR mismatch: filter %v, value %v", f, elem)
	}
	for _, it := range seq.Items {
		match = true
		for _, sub := range f.Items[0].Elements {
			ok, _, err := queryElements(it.Elements, sub)
			if err != nil {
				return false, err
			}
			if !ok {
				match = false
				break
			}
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

// matchString matches DICOM wildcards ('*' and '?') and, for dates and
// times, "lo-hi" ranges with either end open. P3.4 C.2.2.2.4 and C.2.2.2.5.
func matchString(vr dicomvr.VR, pattern string, value string) (bool, error) {
	if vr == dicomvr.DA || vr == dicomvr.TM || vr == dicomvr.DT {
		if lo, hi, ok := strings.Cut(pattern, "-"); ok {
			return (lo == "" || value >= lo) && (hi == "" || value <= hi), nil
		}
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return false, err
	}
	return g.Match(value), nil
}

func isEmptyQuery(f *DataElement) bool {
	if len(f.buffer) == 0 {
		return true
	}
	if !f.vr.IsString() {
		return false
	}
	// 检查匹配格式是否是一串 “*”
	// "*" 与 空查询一样是通用匹配符 P3.4 C2.2.2.4
	pattern, _ := f.GetString()
	return strings.Trim(pattern, "*") == ""
}
