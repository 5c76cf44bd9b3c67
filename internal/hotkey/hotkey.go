// Package hotkey binds global keyboard shortcuts to overlay actions.
package hotkey

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.design/x/hotkey"

	"github.com/bnema/inktop/internal/logger"
)

var keys = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
	"space":  hotkey.KeySpace,
	"return": hotkey.KeyReturn, "enter": hotkey.KeyReturn,
	"escape": hotkey.KeyEscape, "esc": hotkey.KeyEscape,
	"tab":    hotkey.KeyTab,
	"delete": hotkey.KeyDelete, "del": hotkey.KeyDelete,
	"up": hotkey.KeyUp, "down": hotkey.KeyDown, "left": hotkey.KeyLeft, "right": hotkey.KeyRight,
}

// ParseAccelerator splits "ctrl+shift+d" into modifiers and a key. The key
// comes last; modifier order does not matter.
func ParseAccelerator(s string) ([]hotkey.Modifier, hotkey.Key, error) {
	parts := strings.Split(strings.ToLower(strings.ReplaceAll(s, " ", "")), "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return nil, 0, fmt.Errorf("invalid accelerator %q", s)
	}

	key, ok := keys[parts[len(parts)-1]]
	if !ok {
		return nil, 0, fmt.Errorf("unknown key %q in accelerator %q", parts[len(parts)-1], s)
	}

	var mods []hotkey.Modifier
	for _, p := range parts[:len(parts)-1] {
		mod, ok := parseModifier(p)
		if !ok {
			return nil, 0, fmt.Errorf("unknown modifier %q in accelerator %q", p, s)
		}
		mods = append(mods, mod)
	}
	return mods, key, nil
}

type binding struct {
	accelerator string
	action      string
	hk          *hotkey.Hotkey
}

// Manager owns the registered global hotkeys.
type Manager struct {
	mu       sync.Mutex
	bindings []*binding
	done     chan struct{}
	wg       sync.WaitGroup
	dispatch func(action string)
}

// NewManager creates a manager that calls dispatch with the bound action
// each time a hotkey fires. dispatch runs on a listener goroutine.
func NewManager(dispatch func(action string)) *Manager {
	return &Manager{dispatch: dispatch}
}

// Register grabs every accelerator in bindings. Failures are collected and
// returned together; the hotkeys that could be grabbed stay active.
func (m *Manager) Register(bindings map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done == nil {
		m.done = make(chan struct{})
	}

	accels := make([]string, 0, len(bindings))
	for a := range bindings {
		accels = append(accels, a)
	}
	sort.Strings(accels)

	var errs []error
	for _, accel := range accels {
		action := bindings[accel]
		mods, key, err := ParseAccelerator(accel)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		hk := hotkey.New(mods, key)
		if err := hk.Register(); err != nil {
			errs = append(errs, fmt.Errorf("failed to register %s: %w", accel, err))
			continue
		}

		b := &binding{accelerator: accel, action: action, hk: hk}
		m.bindings = append(m.bindings, b)
		m.wg.Add(1)
		go m.listen(b, m.done)
		logger.Debug("Hotkey registered", "accelerator", accel, "action", action)
	}
	return errors.Join(errs...)
}

func (m *Manager) listen(b *binding, done <-chan struct{}) {
	defer m.wg.Done()
	for {
		select {
		case <-done:
			return
		case _, ok := <-b.hk.Keydown():
			if !ok {
				return
			}
			logger.Debug("Hotkey pressed", "accelerator", b.accelerator, "action", b.action)
			m.dispatch(b.action)
		}
	}
}

// Unregister releases every hotkey and stops the listeners.
func (m *Manager) Unregister() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done != nil {
		close(m.done)
		m.done = nil
	}
	for _, b := range m.bindings {
		if err := b.hk.Unregister(); err != nil {
			logger.Warn("Failed to unregister hotkey", "accelerator", b.accelerator, "error", err)
		}
	}
	m.wg.Wait()
	m.bindings = nil
}

// Count returns the number of active hotkeys.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bindings)
}
