package hotkey

import "golang.design/x/hotkey"

func parseModifier(s string) (hotkey.Modifier, bool) {
	switch s {
	case "ctrl", "control":
		return hotkey.ModCtrl, true
	case "shift":
		return hotkey.ModShift, true
	case "alt", "option":
		return hotkey.ModOption, true
	case "cmd", "command", "super":
		return hotkey.ModCmd, true
	default:
		return 0, false
	}
}
