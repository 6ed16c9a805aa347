// Package dicomuid lists the UIDs defined in P3.6 Annex A that this module
// needs to recognize, mostly transfer syntaxes.
package dicomuid

import (
	"fmt"
	"strings"
)

// Type classifies a registered UID.
type Type string

const (
	TypeTransferSyntax         Type = "Transfer Syntax"
	TypeSOPClass               Type = "SOP Class"
	TypeMetaSOPClass           Type = "Meta SOP Class"
	TypeWellKnownFrameOfRef    Type = "Well-known frame of reference"
	TypeApplicationContextName Type = "Application Context Name"
)

// Entry describes one registered UID.
type Entry struct {
	UID  string
	Name string
	Type Type
}

const (
	ImplicitVRLittleEndian         = "1.2.840.10008.1.2"
	ExplicitVRLittleEndian         = "1.2.840.10008.1.2.1"
	DeflatedExplicitVRLittleEndian = "1.2.840.10008.1.2.1.99"
	ExplicitVRBigEndian            = "1.2.840.10008.1.2.2"
	JPEGBaseline8Bit               = "1.2.840.10008.1.2.4.50"
	JPEGExtended12Bit              = "1.2.840.10008.1.2.4.51"
	JPEGLossless                   = "1.2.840.10008.1.2.4.57"
	JPEGLosslessSV1                = "1.2.840.10008.1.2.4.70"
	JPEGLSLossless                 = "1.2.840.10008.1.2.4.80"
	JPEGLSNearLossless             = "1.2.840.10008.1.2.4.81"
	JPEG2000Lossless               = "1.2.840.10008.1.2.4.90"
	JPEG2000                       = "1.2.840.10008.1.2.4.91"
	RLELossless                    = "1.2.840.10008.1.2.5"

	VerificationSOPClass       = "1.2.840.10008.1.1"
	CTImageStorage             = "1.2.840.10008.5.1.4.1.1.2"
	MRImageStorage             = "1.2.840.10008.5.1.4.1.1.4"
	SecondaryCaptureImage      = "1.2.840.10008.5.1.4.1.1.7"
	UltrasoundImageStorage     = "1.2.840.10008.5.1.4.1.1.6.1"
	DigitalXRayImageStorage    = "1.2.840.10008.5.1.4.1.1.1.1"
	BasicTextSRStorage         = "1.2.840.10008.5.1.4.1.1.88.11"
	StudyRootQRFind            = "1.2.840.10008.5.1.4.1.2.2.1"
	DICOMApplicationContext    = "1.2.840.10008.3.1.1.1"
	TalairachBrainAtlasFrameOf = "1.2.840.10008.1.4.1.1"
)

var entries = []Entry{
	{ImplicitVRLittleEndian, "Implicit VR Little Endian", TypeTransferSyntax},
	{ExplicitVRLittleEndian, "Explicit VR Little Endian", TypeTransferSyntax},
	{DeflatedExplicitVRLittleEndian, "Deflated Explicit VR Little Endian", TypeTransferSyntax},
	{ExplicitVRBigEndian, "Explicit VR Big Endian", TypeTransferSyntax},
	{JPEGBaseline8Bit, "JPEG Baseline (Process 1)", TypeTransferSyntax},
	{JPEGExtended12Bit, "JPEG Extended (Process 2 & 4)", TypeTransferSyntax},
	{JPEGLossless, "JPEG Lossless, Non-Hierarchical (Process 14)", TypeTransferSyntax},
	{JPEGLosslessSV1, "JPEG Lossless, Non-Hierarchical, First-Order Prediction", TypeTransferSyntax},
	{JPEGLSLossless, "JPEG-LS Lossless Image Compression", TypeTransferSyntax},
	{JPEGLSNearLossless, "JPEG-LS Lossy (Near-Lossless) Image Compression", TypeTransferSyntax},
	{JPEG2000Lossless, "JPEG 2000 Image Compression (Lossless Only)", TypeTransferSyntax},
	{JPEG2000, "JPEG 2000 Image Compression", TypeTransferSyntax},
	{RLELossless, "RLE Lossless", TypeTransferSyntax},
	{VerificationSOPClass, "Verification SOP Class", TypeSOPClass},
	{CTImageStorage, "CT Image Storage", TypeSOPClass},
	{MRImageStorage, "MR Image Storage", TypeSOPClass},
	{SecondaryCaptureImage, "Secondary Capture Image Storage", TypeSOPClass},
	{UltrasoundImageStorage, "Ultrasound Image Storage", TypeSOPClass},
	{DigitalXRayImageStorage, "Digital X-Ray Image Storage - For Presentation", TypeSOPClass},
	{BasicTextSRStorage, "Basic Text SR Storage", TypeSOPClass},
	{StudyRootQRFind, "Study Root Query/Retrieve Information Model - FIND", TypeSOPClass},
	{DICOMApplicationContext, "DICOM Application Context Name", TypeApplicationContextName},
	{TalairachBrainAtlasFrameOf, "Talairach Brain Atlas Frame of Reference", TypeWellKnownFrameOfRef},
}

var byUID = func() map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.UID] = e
	}
	return m
}()

// Lookup finds information about the given UID. Trailing NUL padding, as
// found in UI values read from files, is ignored.
func Lookup(uid string) (Entry, error) {
	uid = strings.TrimRight(uid, "\x00 ")
	e, ok := byUID[uid]
	if !ok {
		return Entry{}, fmt.Errorf("dicomuid: unknown UID %q", uid)
	}
	return e, nil
}

// UIDString returns a human-readable form of uid, e.g.
// "1.2.840.10008.1.2[Implicit VR Little Endian]".
func UIDString(uid string) string {
	e, err := Lookup(uid)
	if err != nil {
		return uid
	}
	return fmt.Sprintf("%s[%s]", uid, e.Name)
}
