package hotkey

import "golang.design/x/hotkey"

func parseModifier(s string) (hotkey.Modifier, bool) {
	switch s {
	case "ctrl", "control":
		return hotkey.ModCtrl, true
	case "shift":
		return hotkey.ModShift, true
	case "alt", "mod1":
		return hotkey.Mod1, true
	case "super", "win", "mod4":
		return hotkey.Mod4, true
	default:
		return 0, false
	}
}
