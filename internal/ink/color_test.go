package ink

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    color.NRGBA
		wantErr bool
	}{
		{name: "palette name", input: "red", want: Red},
		{name: "palette name is case insensitive", input: " Purple ", want: Purple},
		{name: "six digit hex", input: "#00ff80", want: color.NRGBA{G: 255, B: 128, A: 255}},
		{name: "hex without hash", input: "112233", want: color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 255}},
		{name: "short hex", input: "#f0a", want: color.NRGBA{R: 0xff, B: 0xaa, A: 255}},
		{name: "eight digit hex keeps alpha", input: "#ff000080", want: color.NRGBA{R: 255, A: 0x80}},
		{name: "unknown name", input: "teal", wantErr: true},
		{name: "bad digits", input: "#gg0000", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorName(t *testing.T) {
	assert.Equal(t, "yellow", ColorName(Yellow))
	assert.Equal(t, "#123456", ColorName(color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 255}))
	assert.Equal(t, "#12345680", ColorName(color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0x80}))

	for _, e := range DefaultPalette {
		c, err := ParseColor(ColorName(e.Color))
		require.NoError(t, err)
		assert.Equal(t, e.Color, c)
	}
}
