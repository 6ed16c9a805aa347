package dicomuid_test

import (
	"testing"

	"github.com/odincare/dcmlite/dicomuid"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	e, err := dicomuid.Lookup(dicomuid.ExplicitVRBigEndian)
	require.NoError(t, err)
	require.Equal(t, dicomuid.TypeTransferSyntax, e.Type)
	require.Equal(t, "Explicit VR Big Endian", e.Name)

	e, err = dicomuid.Lookup("1.2.840.10008.1.2\x00")
	require.NoError(t, err)
	require.Equal(t, dicomuid.ImplicitVRLittleEndian, e.UID)

	e, err = dicomuid.Lookup(dicomuid.CTImageStorage)
	require.NoError(t, err)
	require.Equal(t, dicomuid.TypeSOPClass, e.Type)

	_, err = dicomuid.Lookup("1.2.3.4")
	require.Error(t, err)
}

func TestUIDString(t *testing.T) {
	require.Equal(t, "1.2.840.10008.1.2.1[Explicit VR Little Endian]", dicomuid.UIDString(dicomuid.ExplicitVRLittleEndian))
	require.Equal(t, "1.2.3", dicomuid.UIDString("1.2.3"))
}
