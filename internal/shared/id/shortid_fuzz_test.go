package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventID(t *testing.T) {
	got, err := NewEventID()
	require.NoError(t, err)

	prefix, short, ok := strings.Cut(got, "_")
	require.True(t, ok)
	assert.Equal(t, PrefixEvent, prefix)
	assert.Len(t, short, DefaultLength)
	for _, c := range short {
		assert.True(t, strings.ContainsRune(alphabet, c))
	}
}

func TestNewExportID_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		got, err := NewExportID()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, PrefixExport+"_"))
		_, dup := seen[got]
		require.False(t, dup)
		seen[got] = struct{}{}
	}
}

// FuzzGenerateWithPrefix checks that any prefix survives intact and the
// random part stays within the alphabet.
func FuzzGenerateWithPrefix(f *testing.F) {
	for _, seed := range []string{"evt", "exp", "", "a_b", "中文"} {
		f.Add(seed, 8)
	}

	f.Fuzz(func(t *testing.T, prefix string, length int) {
		if length > 64 {
			length = 64
		}
		got, err := GenerateWithPrefix(prefix, length)
		if err != nil {
			t.Fatal(err)
		}
		short, ok := strings.CutPrefix(got, prefix+"_")
		if !ok {
			t.Fatalf("prefix lost: %q", got)
		}
		want := length
		if want <= 0 {
			want = DefaultLength
		}
		if len(short) != want {
			t.Fatalf("got %d random chars, want %d", len(short), want)
		}
		for _, c := range short {
			if !strings.ContainsRune(alphabet, c) {
				t.Fatalf("unexpected rune %q", c)
			}
		}
	})
}
