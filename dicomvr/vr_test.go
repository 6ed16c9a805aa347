package dicomvr_test

import (
	"testing"

	"github.com/odincare/dcmlite/dicomvr"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	vr, err := dicomvr.Parse("US")
	require.NoError(t, err)
	require.Equal(t, dicomvr.US, vr)
	require.Equal(t, "US", vr.String())

	_, err = dicomvr.Parse("ZZ")
	require.Error(t, err)
	require.Equal(t, dicomvr.UN, dicomvr.Resolve("ZZ"))
	require.Equal(t, dicomvr.UN, dicomvr.Resolve(""))
}

func TestAllCodesRoundTrip(t *testing.T) {
	for vr := dicomvr.UN; vr <= dicomvr.UV; vr++ {
		require.Len(t, vr.String(), 2)
		require.Equal(t, vr, dicomvr.Resolve(vr.String()))
	}
}

func TestLengthClass(t *testing.T) {
	for _, vr := range []dicomvr.VR{dicomvr.OB, dicomvr.OW, dicomvr.OF, dicomvr.SQ, dicomvr.UN, dicomvr.UT, dicomvr.UC, dicomvr.UR} {
		require.True(t, vr.IsLongLength(), vr.String())
	}
	for _, vr := range []dicomvr.VR{dicomvr.US, dicomvr.UL, dicomvr.PN, dicomvr.UI, dicomvr.AT, dicomvr.FD, dicomvr.LT} {
		require.False(t, vr.IsLongLength(), vr.String())
	}
}

func TestSizes(t *testing.T) {
	require.Equal(t, 2, dicomvr.US.Size())
	require.Equal(t, 2, dicomvr.SS.Size())
	require.Equal(t, 4, dicomvr.UL.Size())
	require.Equal(t, 4, dicomvr.FL.Size())
	require.Equal(t, 8, dicomvr.FD.Size())
	require.Equal(t, 0, dicomvr.PN.Size())
	require.Equal(t, 0, dicomvr.OB.Size())

	require.Equal(t, 2, dicomvr.AT.WordSize())
	require.Equal(t, 2, dicomvr.OW.WordSize())
	require.Equal(t, 0, dicomvr.OB.WordSize())
	require.Equal(t, 0, dicomvr.SQ.WordSize())
}

func TestCategoriesAndPadding(t *testing.T) {
	require.Equal(t, dicomvr.CategorySequence, dicomvr.SQ.Category())
	require.Equal(t, dicomvr.CategoryInteger, dicomvr.UL.Category())
	require.Equal(t, dicomvr.CategoryFloat, dicomvr.FD.Category())
	require.Equal(t, dicomvr.CategoryBinary, dicomvr.UN.Category())
	require.True(t, dicomvr.PN.IsString())
	require.True(t, dicomvr.SQ.IsSequence())

	require.Equal(t, byte(' '), dicomvr.PN.PadByte())
	require.Equal(t, byte(0), dicomvr.UI.PadByte())
	require.Equal(t, byte(0), dicomvr.OB.PadByte())

	require.True(t, dicomvr.CS.IsMultiValued())
	require.False(t, dicomvr.LT.IsMultiValued())
	require.False(t, dicomvr.OB.IsMultiValued())

	require.True(t, dicomvr.SQ.AllowsUndefinedLength())
	require.True(t, dicomvr.OB.AllowsUndefinedLength())
	require.False(t, dicomvr.LO.AllowsUndefinedLength())
}
