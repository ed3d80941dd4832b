package canonical

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_SortsObjectKeys(t *testing.T) {
	got, err := Marshal(map[string]any{
		"zebra":  1,
		"apple":  2,
		"banana": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"apple":2,"banana":3,"zebra":1}`, string(got))
}

func TestMarshal_NestedStructures(t *testing.T) {
	got, err := Marshal(map[string]any{
		"items": []any{"a", "b"},
		"meta":  map[string]any{"count": int64(2), "open": true},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"items":["a","b"],"meta":{"count":2,"open":true}}`, string(got))
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	got, err := Marshal(map[string]any{"html": "<a href=\"x\">&amp;</a>"})
	require.NoError(t, err)
	assert.Equal(t, `{"html":"<a href=\"x\">&amp;</a>"}`, string(got))
}

func TestMarshal_ControlCharacterEscapes(t *testing.T) {
	got, err := Marshal("line1\nline2\ttab\x01end")
	require.NoError(t, err)
	assert.Equal(t, "\"line1\\nline2\\ttab\\u0001end\"", string(got))
}

func TestMarshal_LineSeparatorsPassThrough(t *testing.T) {
	// U+2028 and U+2029 are not escaped in RFC 8785 canonical JSON.
	got, err := Marshal("a b c")
	require.NoError(t, err)
	assert.Equal(t, "\"a b c\"", string(got))
}

func TestMarshal_NFCNormalization(t *testing.T) {
	// "e" + combining acute accent normalizes to the precomposed U+00E9.
	got, err := Marshal("café")
	require.NoError(t, err)
	assert.Equal(t, "\"café\"", string(got))
}

func TestMarshal_RejectsFloats(t *testing.T) {
	_, err := Marshal(map[string]any{"ratio": 0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
}

func TestMarshal_RejectsNull(t *testing.T) {
	_, err := Marshal(map[string]any{"gone": nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null is forbidden")
}

func TestMarshal_RejectsUnsupportedTypes(t *testing.T) {
	_, err := Marshal(struct{}{})
	require.Error(t, err)
}

func TestSortedKeys_UTF16Order(t *testing.T) {
	// U+E000 is a single UTF-16 unit (0xE000); U+10000 is a surrogate pair
	// starting at 0xD800. UTF-8 byte order puts U+E000 first, UTF-16 code
	// unit order puts the surrogate pair first.
	obj := map[string]any{
		"":     1,
		"\U00010000": 2,
	}

	keys := SortedKeys(obj)
	assert.Equal(t, []string{"\U00010000", ""}, keys)

	wrong := []string{"", "\U00010000"}
	sort.Strings(wrong)
	assert.Equal(t, []string{"", "\U00010000"}, wrong, "UTF-8 sort differs")
}

func TestSortedKeys_ASCIIMatchesLexicographic(t *testing.T) {
	obj := map[string]any{"a": 1, "A": 2, "aa": 3, "AA": 4}
	assert.Equal(t, []string{"A", "AA", "a", "aa"}, SortedKeys(obj))
}
