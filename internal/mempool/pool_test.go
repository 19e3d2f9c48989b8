package mempool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetUint8ReturnsZeroedBuffer(t *testing.T) {
	buf := GetUint8(100)
	require.Len(t, buf, 100)
	for i := range buf {
		buf[i] = 0xff
	}
	PutUint8(buf)

	// A recycled buffer must come back zeroed.
	buf2 := GetUint8(100)
	require.Len(t, buf2, 100)
	for _, v := range buf2 {
		require.Zero(t, v)
	}
	PutUint8(buf2)
}

func TestGetBoolZeroed(t *testing.T) {
	buf := GetBool(5000)
	require.Len(t, buf, 5000)
	buf[0], buf[4999] = true, true
	PutBool(buf)

	buf2 := GetBool(5000)
	require.False(t, buf2[0])
	require.False(t, buf2[4999])
	PutBool(buf2)
}

func TestPutNilIsSafe(t *testing.T) {
	require.NotPanics(t, func() {
		PutUint8(nil)
		PutBool(nil)
		PutFloat32(nil)
	})
}

func TestSizeClass(t *testing.T) {
	require.Equal(t, 4096, sizeClass(1))
	require.Equal(t, 4096, sizeClass(4096))
	require.Equal(t, 8192, sizeClass(4097))
}
