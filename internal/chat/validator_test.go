package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateOutgoing(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"empty", "", ErrEmptyMessage},
		{"one char", "a", nil},
		{"whitespace is content", " ", nil},
		{"exactly 200", strings.Repeat("a", 200), nil},
		{"201", strings.Repeat("a", 201), ErrTooLong},
		{"200 cjk", strings.Repeat("好", 200), nil},
		{"100 emoji is 200 units", strings.Repeat("😀", 100), nil},
		{"101 emoji is 202 units", strings.Repeat("😀", 101), ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutgoing(tt.text)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestUTF16Len(t *testing.T) {
	assert.Equal(t, 0, UTF16Len(""))
	assert.Equal(t, 5, UTF16Len("hello"))
	assert.Equal(t, 3, UTF16Len("大家好"))
	assert.Equal(t, 2, UTF16Len("😀"))
	assert.Equal(t, 1, UTF16Len("\xff"))
}

func TestTruncateInput(t *testing.T) {
	assert.Equal(t, "short", TruncateInput("short"))

	long := strings.Repeat("a", 250)
	assert.Equal(t, strings.Repeat("a", 200), TruncateInput(long))

	// 199 ASCII units then an emoji needing 2 units: the emoji is dropped whole.
	mixed := strings.Repeat("a", 199) + "😀"
	assert.Equal(t, strings.Repeat("a", 199), TruncateInput(mixed))

	assert.NoError(t, ValidateOutgoing(TruncateInput(strings.Repeat("😀", 150))))
}
