package config

import (
	"fmt"
	"net/url"
	"strings"
)

var knownToggleGestures = map[string]struct{}{
	"fist":        {},
	"pointing_up": {},
	"victory":     {},
	"open_palm":   {},
	"ok":          {},
}

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	endpoint := strings.TrimSpace(cfg.ASR.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("asr.endpoint must not be empty")
	}
	if u, err := url.Parse(endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("asr.endpoint %q must be an http(s) URL", endpoint)
	}
	if strings.TrimSpace(cfg.ASR.Language) == "" {
		return nil, fmt.Errorf("asr.language must not be empty")
	}
	if cfg.ASR.TimeoutMS <= 0 {
		return nil, fmt.Errorf("asr.timeout_ms must be > 0")
	}

	typerArgv, err := parseArgv(cfg.Typer.Command)
	if err != nil {
		return nil, fmt.Errorf("typer.command: %w", err)
	}
	if len(typerArgv) == 0 {
		return nil, fmt.Errorf("typer.command must not be empty")
	}

	if cfg.Hotkey.Enable {
		mode := strings.ToLower(strings.TrimSpace(cfg.Hotkey.Mode))
		if mode != "ptt" && mode != "toggle" {
			return nil, fmt.Errorf("hotkey.mode must be one of: ptt, toggle")
		}
		if strings.TrimSpace(cfg.Hotkey.Key) == "" {
			return nil, fmt.Errorf("hotkey.key must not be empty when hotkey.enable=true")
		}
		if len(cfg.Hotkey.Mods) == 0 {
			warnings = append(warnings, Warning{
				Message: "hotkey has no modifiers; a bare key will trigger on normal typing",
			})
		}
	}

	if cfg.Gesture.Enable {
		if strings.TrimSpace(cfg.Gesture.Socket) == "" {
			return nil, fmt.Errorf("gesture.socket must not be empty when gesture.enable=true")
		}
		if cfg.Gesture.StableFrames <= 0 {
			return nil, fmt.Errorf("gesture.stable_frames must be > 0")
		}
		if cfg.Gesture.CooldownMS < 0 {
			return nil, fmt.Errorf("gesture.cooldown_ms must be >= 0")
		}
		toggle := strings.TrimSpace(cfg.Gesture.ToggleGesture)
		if toggle != "" {
			if _, ok := knownToggleGestures[toggle]; !ok {
				return nil, fmt.Errorf("gesture.toggle_gesture %q is not a recognized gesture", toggle)
			}
		}
	}

	if cfg.Indicator.Enable {
		if strings.TrimSpace(cfg.Indicator.AppName) == "" {
			return nil, fmt.Errorf("indicator.app_name must not be empty when indicator.enable=true")
		}
		if cfg.Indicator.TimeoutMS < 0 {
			return nil, fmt.Errorf("indicator.timeout_ms must be >= 0")
		}
	}

	if cfg.Daemon.DrainTimeoutMS <= 0 {
		return nil, fmt.Errorf("daemon.drain_timeout_ms must be > 0")
	}

	return warnings, nil
}
