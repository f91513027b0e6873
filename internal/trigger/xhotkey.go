package trigger

import (
	"fmt"
	"sync"

	"golang.design/x/hotkey"
)

// globalHotkey binds a combo through the display server's global hotkey API.
type globalHotkey struct {
	hk      *hotkey.Hotkey
	keydown chan struct{}
	keyup   chan struct{}
	stop    chan struct{}
	once    sync.Once
}

// NewGlobalHotkey binds a combo of the form "ctrl+shift+space".
func NewGlobalHotkey(combo string) (Hotkey, error) {
	mods, key, err := parseCombo(combo)
	if err != nil {
		return nil, err
	}
	return &globalHotkey{
		hk:      hotkey.New(mods, key),
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}, nil
}

func (g *globalHotkey) Register() error {
	if err := g.hk.Register(); err != nil {
		return fmt.Errorf("register global hotkey: %w", err)
	}
	go g.forward(g.hk.Keydown(), g.keydown)
	go g.forward(g.hk.Keyup(), g.keyup)
	return nil
}

func (g *globalHotkey) forward(in <-chan hotkey.Event, out chan<- struct{}) {
	for {
		select {
		case <-g.stop:
			return
		case <-in:
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}

func (g *globalHotkey) Unregister() {
	g.once.Do(func() {
		close(g.stop)
		g.hk.Unregister()
	})
}

func (g *globalHotkey) Keydown() <-chan struct{} {
	return g.keydown
}

func (g *globalHotkey) Keyup() <-chan struct{} {
	return g.keyup
}
