package dicomio

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/odincare/dcmlite/dicomuid"
	"github.com/sirupsen/logrus"
)

// StandardTransferSyntaxes is the list of standard transfer syntaxes
var StandardTransferSyntaxes = []string{
	dicomuid.ImplicitVRLittleEndian,
	dicomuid.ExplicitVRLittleEndian,
	dicomuid.ExplicitVRBigEndian,
	dicomuid.DeflatedExplicitVRLittleEndian,
}

// CanonicalTransferSyntaxUID returns the canonical transfer syntax UID
// (one of StandardTransferSyntaxes) with the same encoding as uid.
//
// Encapsulated (compressed) transfer syntaxes and UIDs missing from the
// registry are encoded as explicit VR little endian, PS3.5 A.4. A UID that
// is registered as something other than a transfer syntax is an error.
func CanonicalTransferSyntaxUID(uid string) (string, error) {
	uid = strings.TrimRight(uid, "\x00 ")
	switch uid {
	case dicomuid.ImplicitVRLittleEndian,
		dicomuid.ExplicitVRLittleEndian,
		dicomuid.ExplicitVRBigEndian,
		dicomuid.DeflatedExplicitVRLittleEndian:
		return uid, nil
	case "":
		return "", fmt.Errorf("dicomio.CanonicalTransferSyntaxUID: empty uid")
	}
	e, err := dicomuid.Lookup(uid)
	if err != nil {
		logrus.Warnf("dicomio.CanonicalTransferSyntaxUID: unregistered transfer syntax %q, assuming explicit VR little endian", uid)
		return dicomuid.ExplicitVRLittleEndian, nil
	}
	if e.Type != dicomuid.TypeTransferSyntax {
		return "", fmt.Errorf("dicomio.CanonicalTransferSyntaxUID: '%s' is not a transfer syntax (is %s)", uid, e.Type)
	}
	return dicomuid.ExplicitVRLittleEndian, nil
}

// ParseTransferSyntaxUID parses a transfer syntax uid and returns its byteorder
// and implicitVR/explicitVR type. TransferSyntaxUID can be any UID that refers to
// a transfer syntax. It can be, e.g.
// 1.2.840.10008.1.2 (it will return (LittleEndian, ImplicitVR))
// or 1.2.840.10008.1.2.4.54 (it will return (LittleEndian, ExplicitVR))
func ParseTransferSyntaxUID(uid string) (byteorder binary.ByteOrder, implicit IsImplicitVR, err error) {
	canonical, err := CanonicalTransferSyntaxUID(uid)
	if err != nil {
		return nil, UnknownVR, err
	}
	switch canonical {
	case dicomuid.ImplicitVRLittleEndian:
		return binary.LittleEndian, ImplicitVR, nil
	case dicomuid.DeflatedExplicitVRLittleEndian, dicomuid.ExplicitVRLittleEndian:
		return binary.LittleEndian, ExplicitVR, nil
	case dicomuid.ExplicitVRBigEndian:
		return binary.BigEndian, ExplicitVR, nil
	}
	DoAssert(false, "invalid transfer syntax", canonical, uid)
	return nil, UnknownVR, nil
}

// IsDeflated reports whether the data set following the file meta group is
// deflate-compressed under the given transfer syntax.
func IsDeflated(uid string) bool {
	return strings.TrimRight(uid, "\x00 ") == dicomuid.DeflatedExplicitVRLittleEndian
}
