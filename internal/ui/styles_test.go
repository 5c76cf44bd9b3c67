package ui

import (
	"image/color"
	"strings"
	"testing"
)

func TestFormatControl(t *testing.T) {
	tests := []struct {
		name string
		key  string
		desc string
	}{
		{name: "basic control", key: "q", desc: "Quit"},
		{name: "longer key", key: "ctrl+shift+d", desc: "Pause drawing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatControl(tt.key, tt.desc)
			if !strings.Contains(got, tt.key) {
				t.Errorf("FormatControl() missing key %q", tt.key)
			}
			if !strings.Contains(got, tt.desc) {
				t.Errorf("FormatControl() missing description %q", tt.desc)
			}
		})
	}
}

func TestFormatStatus(t *testing.T) {
	tests := []struct {
		name    string
		visible bool
		status  string
		want    string
	}{
		{name: "visible overlay", visible: true, status: "Overlay shown", want: "●"},
		{name: "hidden overlay", visible: false, status: "Overlay hidden", want: "○"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatStatus(tt.visible, tt.status)
			if !strings.Contains(got, tt.status) {
				t.Errorf("FormatStatus() missing status text %q", tt.status)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("FormatStatus() missing indicator %q", tt.want)
			}
		})
	}
}

func TestFormatListItem(t *testing.T) {
	for _, active := range []bool{false, true} {
		got := FormatListItem("DP-1", active)
		if !strings.Contains(got, "•") || !strings.Contains(got, "DP-1") {
			t.Errorf("FormatListItem(active=%v) = %q", active, got)
		}
	}
}

func TestFormatResult(t *testing.T) {
	if got := FormatResult(true, "done"); !strings.Contains(got, IconSuccess) {
		t.Errorf("expected success icon in %q", got)
	}
	if got := FormatResult(false, "failed"); !strings.Contains(got, IconError) {
		t.Errorf("expected error icon in %q", got)
	}
}

func TestSwatch(t *testing.T) {
	got := Swatch(color.NRGBA{R: 255, A: 255})
	if !strings.Contains(got, "██") {
		t.Errorf("Swatch() missing block: %q", got)
	}
	if hexByte(0xa7) != "a7" || hexByte(0) != "00" {
		t.Error("hexByte() produced wrong digits")
	}
}

func TestCenter(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		content string
	}{
		{name: "short content", width: 20, content: "Test"},
		{name: "exact width", width: 4, content: "Test"},
		{name: "content longer than width", width: 2, content: "Test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Center(tt.width, tt.content); !strings.Contains(got, tt.content) {
				t.Errorf("Center() missing content %q", tt.content)
			}
		})
	}
}

func TestCreateSeparator(t *testing.T) {
	if got := CreateSeparator(0, ""); strings.Count(got, "─") != 50 {
		t.Errorf("expected default separator of 50, got %q", got)
	}
	if got := CreateSeparator(3, "="); !strings.Contains(got, "===") {
		t.Errorf("expected custom separator, got %q", got)
	}
}
