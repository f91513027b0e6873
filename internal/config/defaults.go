package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Audio: AudioConfig{
			Input:    "default",
			Fallback: "default",
		},
		ASR: ASRConfig{
			Endpoint:  "http://127.0.0.1:8080/inference",
			Model:     "",
			Language:  "en",
			TimeoutMS: 60000,
		},
		Filter: FilterConfig{
			TrailingSpace:       true,
			CapitalizeSentences: true,
		},
		Typer: TyperConfig{
			Command:           "wtype -",
			ClipboardFallback: true,
		},
		Hotkey: HotkeyConfig{
			Enable: true,
			Mods:   []string{"ctrl", "shift"},
			Key:    "space",
			Mode:   "ptt",
		},
		Gesture: GestureConfig{
			Enable:        false,
			Socket:        "",
			StableFrames:  3,
			CooldownMS:    500,
			ToggleGesture: "open_palm",
		},
		Mute:      MuteConfig{LockPath: ""},
		Indicator: IndicatorConfig{Enable: true, AppName: "parla", TimeoutMS: 1600},
		Daemon:    DaemonConfig{DrainTimeoutMS: 10000},
	}
}
