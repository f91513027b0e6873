// Package config resolves, parses, validates, and defaults parla configuration.
package config

// Config is the fully materialized runtime configuration used by parla.
type Config struct {
	Audio     AudioConfig     `yaml:"audio"`
	ASR       ASRConfig       `yaml:"asr"`
	Filter    FilterConfig    `yaml:"filter"`
	Typer     TyperConfig     `yaml:"typer"`
	Hotkey    HotkeyConfig    `yaml:"hotkey"`
	Gesture   GestureConfig   `yaml:"gesture"`
	Mute      MuteConfig      `yaml:"mute"`
	Indicator IndicatorConfig `yaml:"indicator"`
	Daemon    DaemonConfig    `yaml:"daemon"`
}

// AudioConfig controls preferred and fallback input-source selection.
type AudioConfig struct {
	Input    string `yaml:"input"`
	Fallback string `yaml:"fallback"`
}

// ASRConfig points at the speech-recognition HTTP endpoint.
type ASRConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	Language  string `yaml:"language"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

// FilterConfig controls transcript post-processing.
type FilterConfig struct {
	TrailingSpace       bool `yaml:"trailing_space"`
	CapitalizeSentences bool `yaml:"capitalize_sentences"`
}

// TyperConfig controls keystroke injection of the final transcript.
type TyperConfig struct {
	Command           string `yaml:"command"`
	ClipboardFallback bool   `yaml:"clipboard_fallback"`
}

// HotkeyConfig controls the local keyboard trigger source.
type HotkeyConfig struct {
	Enable bool     `yaml:"enable"`
	Mods   []string `yaml:"mods"`
	Key    string   `yaml:"key"`
	Mode   string   `yaml:"mode"`
}

// GestureConfig controls the camera gesture trigger pipeline.
type GestureConfig struct {
	Enable        bool   `yaml:"enable"`
	Socket        string `yaml:"socket"`
	StableFrames  int    `yaml:"stable_frames"`
	CooldownMS    int    `yaml:"cooldown_ms"`
	ToggleGesture string `yaml:"toggle_gesture"`
}

// MuteConfig locates the cross-process mute gate lock file.
type MuteConfig struct {
	LockPath string `yaml:"lock_path"`
}

// IndicatorConfig controls desktop notification feedback.
type IndicatorConfig struct {
	Enable    bool   `yaml:"enable"`
	AppName   string `yaml:"app_name"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

// DaemonConfig controls daemon lifecycle behavior.
type DaemonConfig struct {
	DrainTimeoutMS int `yaml:"drain_timeout_ms"`
}

// Warning is a non-fatal configuration finding surfaced to the user.
type Warning struct {
	Message string
}
