package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemDBRoundTrip(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	key := []byte("material:1")
	value := []byte{0x01, 0x02, 0x03}

	ok, err := db.Has(key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, db.Put(key, value))

	ok, err = db.Has(key)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := db.Get(key)
	require.NoError(t, err)
	require.Equal(t, value, got)
}

func TestMemDBCopiesValue(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	value := []byte{0xAA}
	require.NoError(t, db.Put([]byte("k"), value))
	value[0] = 0xBB

	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA}, got)
}

func TestMemDBMissingKey(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	_, err := db.Get([]byte("absent"))
	require.Error(t, err)
}
