package lib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLengthPrefix(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		segments [][]byte
		expected []byte
	}{
		{
			name:     "two segments",
			detail:   "each segment is preceded by its length",
			segments: [][]byte{{1, 2}, {3}},
			expected: []byte{2, 1, 2, 1, 3},
		},
		{
			name:     "nil skipped",
			detail:   "nil segments are not encoded",
			segments: [][]byte{{1}, nil, {2}},
			expected: []byte{1, 1, 1, 2},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			key := JoinLenPrefix(test.segments...)
			require.Equal(t, test.expected, key)
			segments, err := DecodeLengthPrefixed(key)
			require.NoError(t, err)
			for _, s := range test.segments {
				if s == nil {
					continue
				}
				require.Equal(t, s, segments[0])
				segments = segments[1:]
			}
			require.Empty(t, segments)
		})
	}
	// a length past the end of the key is invalid
	_, err := DecodeLengthPrefixed([]byte{5, 1})
	require.Equal(t, ErrInvalidArgument(), err)
}

func TestHexBytesJSON(t *testing.T) {
	expected := HexBytes{0xab, 0xcd}
	bz, err := MarshalJSON(expected)
	require.NoError(t, err)
	require.Equal(t, `"abcd"`, string(bz))
	got := new(HexBytes)
	require.NoError(t, UnmarshalJSON(bz, got))
	require.Equal(t, expected, *got)
	require.Error(t, UnmarshalJSON([]byte(`"xyz"`), got))
	_, err = NewHexBytesFromString("zz")
	require.Error(t, err)
}

func TestMarshal(t *testing.T) {
	type record struct {
		Id    uint64
		Votes []uint64
	}
	expected := &record{Id: 3, Votes: []uint64{0, 150}}
	bz, err := Marshal(expected)
	require.NoError(t, err)
	got := new(record)
	require.NoError(t, Unmarshal(bz, got))
	require.Equal(t, expected, got)
	// nil bytes leave the pointer untouched
	require.NoError(t, Unmarshal(nil, got))
	require.Equal(t, expected, got)
	require.Error(t, Unmarshal([]byte{0xc1}, got))
}

func TestJSONFile(t *testing.T) {
	dir := t.TempDir()
	expected := map[string]uint64{"goal": 100}
	require.NoError(t, SaveJSONToFile(expected, dir, "file.json"))
	got := map[string]uint64{}
	require.NoError(t, NewJSONFromFile(&got, dir, "file.json"))
	require.Equal(t, expected, got)
	require.Equal(t, CodeReadFile, NewJSONFromFile(&got, dir, "missing.json").Code())
}
