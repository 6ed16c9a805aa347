package dicomtag

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/odincare/dcmlite/dicomvr"
)

// Tag 是一个定义了dicom文件中element 的类型的 <group, element> 元组
// 列表中的标准tags定义在tag_definitions.go, 也可以参考：
// ftp://medical.nema.org/medical/dicom/2011/11_06pu.pdf
type Tag struct {
	// Group 和 Element 是读取16进制对的结果 如 (0010,0010)
	Group   uint16
	Element uint16
}

// Compare 返回 -1/0/1 如果t<other | t==other | t>other，
// tag先由group排序，再由element排序
func (t Tag) Compare(other Tag) int {
	if t.Group < other.Group {
		return -1
	}
	if t.Group > other.Group {
		return 1
	}
	if t.Element < other.Element {
		return -1
	}
	if t.Element > other.Element {
		return 1
	}
	return 0
}

// IsSentinel reports whether t is one of the structural tags of group FFFE
// (Item, ItemDelimitationItem, SequenceDelimitationItem).
func (t Tag) IsSentinel() bool {
	return t == Item || t == ItemDelimitationItem || t == SequenceDelimitationItem
}

// IsMetaElement reports whether t belongs to the file meta information group.
func (t Tag) IsMetaElement() bool {
	return t.Group == MetadataGroup
}

func IsPrivate(group uint16) bool {
	return group%2 == 1
}

// String 返回一个如"(0008,1234)"格式的string
// 0x0008 是 t.Group 0x1234是t.Element
func (t Tag) String() string {
	return fmt.Sprintf("(%04x,%04x)", t.Group, t.Element)
}

// TagInfo 保存了Tag在标准DICOM标准中的detail information
type TagInfo struct {
	Tag Tag
	// Data 编码 如 "UL" "CS"
	VR dicomvr.VR
	// 人类可读的Tag名称 如 "PatientName"
	Name string
	// 基数(Cardinality) (element中期望的值 #)
	VM string
}

// MetadataGroup 是 Tag.Group 中 metadata tags的值.
const MetadataGroup = 2

// ItemSeqGroup is the group of Item and the delimitation items.
const ItemSeqGroup = 0xFFFE

var (
	tagDict     map[Tag]TagInfo
	tagDictOnce sync.Once
)

func maybeInitTagDict() {
	tagDictOnce.Do(func() {
		tagDict = parseDict(dictData)
	})
}

// parseDict 读取 tab 分隔的字典文本, 以 '#' 开头的行是注释
func parseDict(text string) map[Tag]TagInfo {
	reader := csv.NewReader(bytes.NewReader([]byte(text)))
	reader.Comma = '\t'
	reader.Comment = '#'
	dict := make(map[Tag]TagInfo)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			panic(fmt.Sprintf("dicomtag: malformed dictionary: %v", err))
		}
		tag, err := parseTag(row[0])
		if err != nil {
			panic(fmt.Sprintf("dicomtag: bad tag %q: %v", row[0], err))
		}
		dict[tag] = TagInfo{
			Tag:  tag,
			VR:   parseDictVR(row[1]),
			Name: row[2],
			VM:   row[3],
		}
	}
	return dict
}

// parseDictVR handles entries like "US or SS" by taking the first choice.
func parseDictVR(s string) dicomvr.VR {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	return dicomvr.Resolve(strings.ToUpper(s))
}

// 找到给与的tag中的信息
// 如果tag不是dicom standard的一部分或已经不再在dicom standard中 会返回错误
func Find(tag Tag) (TagInfo, error) {
	maybeInitTagDict()
	entry, ok := tagDict[tag]
	if !ok {
		// (0000-u-ffff,0000)	UL	GenericGroupLength	1	GENERIC
		if tag.Group%2 == 0 && tag.Element == 0x0000 {
			entry = TagInfo{tag, dicomvr.UL, "GenericGroupLength", "1"}
		} else {
			return TagInfo{}, fmt.Errorf("could not find tag (0x%x, 0x%x) in dictionary", tag.Group, tag.Element)
		}
	}
	return entry, nil
}

// MustFind与Find相似, 但报错会panic停止程序
func MustFind(tag Tag) TagInfo {
	e, err := Find(tag)
	if err != nil {
		panic(fmt.Sprintf("tag %v not found: %s", tag, err))
	}
	return e
}

// LookupVR returns the VR the dictionary declares for tag. Unknown and
// private tags resolve to UN.
func LookupVR(tag Tag) dicomvr.VR {
	if e, err := Find(tag); err == nil {
		return e.VR
	}
	return dicomvr.UN
}

// FindByName将传入的name寻找到information。
// 如果tag不是dicom standard中的一个或者不再在dicom standard中，将会返回一个错误
// 例: FindByName("TransferSyntaxUID")
func FindByName(name string) (TagInfo, error) {
	maybeInitTagDict()
	for _, ent := range tagDict {
		if ent.Name == name {
			return ent, nil
		}
	}
	return TagInfo{}, fmt.Errorf("could not find tag with name %s", name)
}

// DebugString 返回一个人类可读的tag的诊断字符串，格式如 "(group,element)[name]"
func DebugString(tag Tag) string {
	e, err := Find(tag)
	if err != nil {
		if IsPrivate(tag.Group) {
			return fmt.Sprintf("(%04x,%04x)[private]", tag.Group, tag.Element)
		}
		return fmt.Sprintf("(%04x,%04x)[??]", tag.Group, tag.Element)
	}
	return fmt.Sprintf("(%04x,%04x)[%s]", tag.Group, tag.Element, e.Name)
}

// 将tag分成 group和element 由16进制数表示
// TODO: support group ranges (6000-60FF,0803)
func parseTag(tag string) (Tag, error) {
	parts := strings.Split(strings.Trim(tag, "()"), ",")
	if len(parts) != 2 {
		return Tag{}, fmt.Errorf("expect (group,element), found %q", tag)
	}
	group, err := strconv.ParseUint(parts[0], 16, 16)
	if err != nil {
		return Tag{}, err
	}
	elem, err := strconv.ParseUint(parts[1], 16, 16)
	if err != nil {
		return Tag{}, err
	}
	return Tag{Group: uint16(group), Element: uint16(elem)}, nil
}
