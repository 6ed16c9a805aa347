package dicomio

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

// CodingSystem defines how a []byte is translated into a utf8 string.
type CodingSystem struct {
	// VR="PN" is the only place where we potentially use all three
	// decoders.  For all other VR types, only Ideographic decoder is used.
	// See P3.5, 6.2.
	//
	// nil 表示 7bit ASCII (或 UTF-8), 不做转换
	Alphabetic  *encoding.Decoder
	Ideographic *encoding.Decoder
	Phonetic    *encoding.Decoder
}

// CodingSystemType selects one of the three decoders of a CodingSystem.
type CodingSystemType int

const (
	// See CodingSystem for explanations of these coding-system types.
	AlphabeticCodingSystem CodingSystemType = iota
	IdeographicCodingSystem
	PhoneticCodingSystem
)

func (cs CodingSystem) decoder(csType CodingSystemType) *encoding.Decoder {
	switch csType {
	case AlphabeticCodingSystem:
		return cs.Alphabetic
	case IdeographicCodingSystem:
		return cs.Ideographic
	case PhoneticCodingSystem:
		return cs.Phonetic
	}
	panic(fmt.Sprintf("dicomio: unknown coding system type %d", csType))
}

// Decode converts raw value bytes to a UTF-8 string.
func (cs CodingSystem) Decode(csType CodingSystemType, raw []byte) (string, error) {
	sd := cs.decoder(csType)
	if sd == nil {
		return string(raw), nil
	}
	decoded, err := sd.Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// Mapping of DICOM defined terms to golang encodings. A nil encoding means
// 7bit ascii. P3.3 C.12.1.1.2.
var dicomEncodings = map[string]encoding.Encoding{
	"":                nil,
	"ISO_IR 6":        nil,
	"ISO 2022 IR 6":   nil,
	"ISO_IR 100":      charmap.ISO8859_1,
	"ISO 2022 IR 100": charmap.ISO8859_1,
	"ISO_IR 101":      charmap.ISO8859_2,
	"ISO 2022 IR 101": charmap.ISO8859_2,
	"ISO_IR 109":      charmap.ISO8859_3,
	"ISO 2022 IR 109": charmap.ISO8859_3,
	"ISO_IR 110":      charmap.ISO8859_4,
	"ISO 2022 IR 110": charmap.ISO8859_4,
	"ISO_IR 144":      charmap.ISO8859_5,
	"ISO 2022 IR 144": charmap.ISO8859_5,
	"ISO_IR 127":      charmap.ISO8859_6,
	"ISO 2022 IR 127": charmap.ISO8859_6,
	"ISO_IR 126":      charmap.ISO8859_7,
	"ISO 2022 IR 126": charmap.ISO8859_7,
	"ISO_IR 138":      charmap.ISO8859_8,
	"ISO 2022 IR 138": charmap.ISO8859_8,
	"ISO_IR 148":      charmap.ISO8859_9,
	"ISO 2022 IR 148": charmap.ISO8859_9,
	"ISO_IR 166":      charmap.Windows874,
	"ISO 2022 IR 166": charmap.Windows874,
	"ISO_IR 13":       japanese.ShiftJIS,
	"ISO 2022 IR 13":  japanese.ShiftJIS,
	"ISO 2022 IR 87":  japanese.ISO2022JP,
	"ISO 2022 IR 159": japanese.ISO2022JP,
	"ISO 2022 IR 149": korean.EUCKR,
	"ISO_IR 192":      unicode.UTF8,
	"GB18030":         simplifiedchinese.GB18030,
	"GBK":             simplifiedchinese.GBK,
}

func lookupEncoding(name string) (encoding.Encoding, bool) {
	if enc, ok := dicomEncodings[name]; ok {
		return enc, true
	}
	// Non-conformant files sometimes carry IANA names such as "UTF-8".
	if enc, err := htmlindex.Get(strings.ToLower(name)); err == nil {
		return enc, true
	}
	return nil, false
}

// ParseSpecificCharacterSet converts the values of SpecificCharacterSet
// (0008,0005), such as ["ISO_IR 100"], to a CodingSystem. Unknown names
// are logged and treated as ASCII. Cf. P3.2 D.6.2.
func ParseSpecificCharacterSet(encodingNames []string) (CodingSystem, error) {
	var decoders []*encoding.Decoder
	for _, name := range encodingNames {
		name = strings.TrimSpace(name)
		enc, ok := lookupEncoding(name)
		if !ok {
			logrus.Warnf("dicomio.ParseSpecificCharacterSet: unknown character set '%s', assuming ASCII", name)
		}
		var c *encoding.Decoder
		if enc != nil {
			c = enc.NewDecoder()
		}
		decoders = append(decoders, c)
	}
	switch len(decoders) {
	case 0:
		return CodingSystem{}, nil
	case 1:
		return CodingSystem{decoders[0], decoders[0], decoders[0]}, nil
	case 2:
		return CodingSystem{decoders[0], decoders[1], decoders[1]}, nil
	default:
		return CodingSystem{decoders[0], decoders[1], decoders[2]}, nil
	}
}
