package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	dicom "github.com/odincare/dcmlite"
	"github.com/odincare/dcmlite/dicomtag"
	"github.com/odincare/dcmlite/dicomuid"
	"github.com/odincare/dcmlite/dicomvr"
	"github.com/stretchr/testify/require"
)

func mustNewString(tag dicomtag.Tag, v string) *dicom.DataElement {
	e := dicom.NewDataElement(tag, binary.LittleEndian)
	if err := e.SetString(v); err != nil {
		panic(err)
	}
	return e
}

func TestStreamPrinter(t *testing.T) {
	ds := &dicom.DataSet{Elements: []dicom.Element{
		mustNewString(dicomtag.MediaStorageSOPClassUID, dicomuid.CTImageStorage),
		mustNewString(dicomtag.MediaStorageSOPInstanceUID, "1.2.3.4"),
		mustNewString(dicomtag.TransferSyntaxUID, dicomuid.ExplicitVRLittleEndian),
		dicom.NewSequenceElement(dicomtag.ReferencedImageSequence, &dicom.Item{Elements: []dicom.Element{
			mustNewString(dicomtag.ReferencedSOPInstanceUID, "1.2.3"),
		}}),
		mustNewString(dicomtag.PatientID, "ID01"),
	}}
	var file bytes.Buffer
	require.NoError(t, dicom.WriteDataSet(&file, ds))

	var out bytes.Buffer
	require.NoError(t, dicom.NewReader(&streamPrinter{out: &out}, dicom.ReadOptions{}).Read(&file))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	// Seven meta elements come first.
	require.Len(t, lines, 7+6)
	body := lines[7:]
	require.True(t, strings.HasPrefix(body[0], "(0008,1140)[ReferencedImageSequence] SQ length="), body[0])
	require.True(t, strings.HasPrefix(body[1], "  item length="), body[1])
	require.Equal(t, "     (0008,1155)[ReferencedSOPInstanceUID] UI [1.2.3]", body[2])
	require.Equal(t, "  ]", body[3])
	require.Equal(t, "]", body[4])
	require.Equal(t, " (0010,0020)[PatientID] LO [ID01]", body[5])
}

func TestFrameExtractor(t *testing.T) {
	dir := t.TempDir()
	x := &frameExtractor{dir: dir}

	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0}
	png := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}
	require.NoError(t, dicom.Visit(x, dicom.NewEncapsulatedElement(dicomtag.PixelData, nil, jpeg, png)))

	native := dicom.NewDataElementWithVR(dicomtag.PixelData, dicomvr.OW, binary.LittleEndian)
	require.NoError(t, native.SetBuffer([]byte{1, 2}))
	require.NoError(t, dicom.Visit(x, native))
	// Only PixelData is extracted.
	require.NoError(t, dicom.Visit(x, mustNewString(dicomtag.PatientID, "ID01")))

	for name, want := range map[string][]byte{
		"image.0.jpg": jpeg,
		"image.1.png": png,
		"image.2.raw": {1, 2},
	} {
		got, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		require.Equal(t, want, got)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

func TestGetFormat(t *testing.T) {
	for _, test := range []struct {
		data []byte
		want string
	}{
		{[]byte{0x89, 0x50, 0x4e, 0x47}, "png"},
		{[]byte{0xff, 0xd8, 0xff, 0xe1}, "jpg"},
		{[]byte("GIF89a"), "gif"},
		{[]byte("BM\x00\x00"), "bmp"},
		{[]byte{1, 2, 3, 4}, ""},
		{[]byte{0xff}, ""},
	} {
		require.Equal(t, test.want, getFormat(bytes.NewReader(test.data)), "%x", test.data)
	}
}
