package hotkey

import "golang.design/x/hotkey"

func parseModifier(s string) (hotkey.Modifier, bool) {
	switch s {
	case "ctrl", "control":
		return hotkey.ModCtrl, true
	case "shift":
		return hotkey.ModShift, true
	case "alt":
		return hotkey.ModAlt, true
	case "win", "super":
		return hotkey.ModWin, true
	default:
		return 0, false
	}
}
