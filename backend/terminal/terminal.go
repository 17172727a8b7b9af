// Package terminal renders a System's framebuffer in a tcell terminal
// using half-block characters (two Game Boy pixel rows per terminal
// cell) and forwards key events to the emulated joypad.
package terminal

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tambler/gbcore/gb"
	"github.com/tambler/gbcore/joypad"
	"github.com/tambler/gbcore/ppu"
)

const frameTime = time.Second / 60

// keyMapping binds host keys to Game Boy buttons.
var keyMapping = map[rune]joypad.Button{
	'w': joypad.Up,
	's': joypad.Down,
	'a': joypad.Left,
	'd': joypad.Right,
	'z': joypad.B,
	'x': joypad.A,
	' ': joypad.Select,
}

var specialKeyMapping = map[tcell.Key]joypad.Button{
	tcell.KeyUp:    joypad.Up,
	tcell.KeyDown:  joypad.Down,
	tcell.KeyLeft:  joypad.Left,
	tcell.KeyRight: joypad.Right,
	tcell.KeyEnter: joypad.Start,
}

// Backend drives a System inside a tcell screen until the user quits.
type Backend struct {
	screen tcell.Screen
	system *gb.System

	pressed map[joypad.Button]bool
}

// New opens a tcell screen for running sys interactively.
func New(sys *gb.System) (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	return &Backend{screen: screen, system: sys, pressed: make(map[joypad.Button]bool)}, nil
}

// Run drives the emulator at roughly 60 frames per second until the user
// presses Escape or Ctrl-C.
func (b *Backend) Run() error {
	defer b.screen.Fini()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for range ticker.C {
		quit, err := b.pollInput()
		if err != nil {
			return err
		}
		if quit {
			return nil
		}

		b.system.RunFrame()
		b.render()
	}
	return nil
}

func (b *Backend) pollInput() (quit bool, err error) {
	seen := make(map[joypad.Button]bool)
	for b.screen.HasPendingEvent() {
		switch ev := b.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return true, nil
			}
			if btn, ok := specialKeyMapping[ev.Key()]; ok {
				b.press(btn)
				seen[btn] = true
				continue
			}
			if ev.Key() == tcell.KeyRune {
				if btn, ok := keyMapping[ev.Rune()]; ok {
					b.press(btn)
					seen[btn] = true
				}
			}
		case *tcell.EventResize:
			b.screen.Sync()
		}
	}

	// tcell delivers key-down only; every still-pressed button not seen
	// again this tick is released so holds don't stick forever.
	for btn := range b.pressed {
		if seen[btn] {
			continue
		}
		b.system.OnButtonRelease(btn)
		delete(b.pressed, btn)
	}

	return false, nil
}

func (b *Backend) press(btn joypad.Button) {
	b.system.OnButtonPress(btn)
	b.pressed[btn] = true
}

var shadeColors = []tcell.Color{
	tcell.ColorWhite,
	tcell.ColorSilver,
	tcell.ColorGray,
	tcell.ColorBlack,
}

func (b *Backend) render() {
	frame := b.system.PixelData()
	b.screen.Clear()

	for y := 0; y < ppu.Height; y += 2 {
		for x := 0; x < ppu.Width; x++ {
			top := shadeAt(frame, x, y)
			bottom := 0
			if y+1 < ppu.Height {
				bottom = shadeAt(frame, x, y+1)
			}

			style := tcell.StyleDefault.Foreground(shadeColors[top]).Background(shadeColors[bottom])
			b.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}

	b.screen.Show()
}

// shadeAt maps an RGBA8888 pixel back to one of the four DMG shades by
// its red channel: 0 is the lightest shade, 3 the darkest.
func shadeAt(frame []byte, x, y int) int {
	r := frame[(y*ppu.Width+x)*4]
	switch {
	case r >= 0xE0:
		return 0
	case r >= 0x90:
		return 1
	case r >= 0x40:
		return 2
	default:
		return 3
	}
}
