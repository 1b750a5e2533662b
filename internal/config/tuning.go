// Package config loads the JSON tuning file that overrides the video
// pipeline and protocol timing defaults. The schema follows the
// teacher's partial-override convention: every field is a pointer, so
// an on-disk file only needs to mention the values it changes, and a
// Get* accessor supplies the production default for anything omitted.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the canonical tuning defaults file location,
// relative to the repository root.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig is the root configuration for the video pipeline and
// protocol timing. Fields omitted from the JSON file fall back to the
// corresponding Get* default.
type TuningConfig struct {
	// Video pipeline params
	FilterRadius          *float64 `json:"filter_radius,omitempty"`
	JitterMoveThreshold   *float64 `json:"jitter_move_threshold,omitempty"`
	UseAntiJitter         *bool    `json:"use_anti_jitter,omitempty"`
	ROIExpansionFactor    *float64 `json:"roi_expansion_factor,omitempty"`
	CornerBrightnessFloor *int     `json:"corner_brightness_floor,omitempty"`
	YSightOffset          *float64 `json:"y_sight_offset,omitempty"`

	// Protocol timing params (duration strings, e.g. "100ms")
	ConnectTimeout           *string `json:"connect_timeout,omitempty"`
	ConnectFlushDelay        *string `json:"connect_flush_delay,omitempty"`
	HandshakeSettleDelay     *string `json:"handshake_settle_delay,omitempty"`
	AuthenticatedRepeatDelay *string `json:"authenticated_repeat_delay,omitempty"`
	StartSettleDelay         *string `json:"start_settle_delay,omitempty"`
	DebugResponseWindow      *string `json:"debug_response_window,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with every field nil. Use
// LoadTuningConfig to populate one from disk.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path must
// end in .json and the file must be under 1MB; fields absent from the
// file retain their defaults via the Get* accessors.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath, searching upward from the current directory.
// Panics if the file cannot be found; intended for test setup and
// cmd/ startup where a missing config is fatal.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run from the repository root")
}

// Validate checks that any set fields hold sane values.
func (c *TuningConfig) Validate() error {
	if c.FilterRadius != nil && *c.FilterRadius < 0 {
		return fmt.Errorf("filter_radius must be non-negative, got %f", *c.FilterRadius)
	}
	if c.JitterMoveThreshold != nil && *c.JitterMoveThreshold < 0 {
		return fmt.Errorf("jitter_move_threshold must be non-negative, got %f", *c.JitterMoveThreshold)
	}
	if c.ROIExpansionFactor != nil && *c.ROIExpansionFactor < 0 {
		return fmt.Errorf("roi_expansion_factor must be non-negative, got %f", *c.ROIExpansionFactor)
	}
	if c.CornerBrightnessFloor != nil && (*c.CornerBrightnessFloor < 0 || *c.CornerBrightnessFloor > 255) {
		return fmt.Errorf("corner_brightness_floor must be in [0,255], got %d", *c.CornerBrightnessFloor)
	}
	for name, raw := range map[string]*string{
		"connect_timeout":            c.ConnectTimeout,
		"connect_flush_delay":        c.ConnectFlushDelay,
		"handshake_settle_delay":     c.HandshakeSettleDelay,
		"authenticated_repeat_delay": c.AuthenticatedRepeatDelay,
		"start_settle_delay":         c.StartSettleDelay,
		"debug_response_window":      c.DebugResponseWindow,
	} {
		if raw == nil || *raw == "" {
			continue
		}
		if _, err := time.ParseDuration(*raw); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, *raw, err)
		}
	}
	return nil
}

// GetFilterRadius returns the border-colour distance threshold, or the
// video settings package default.
func (c *TuningConfig) GetFilterRadius() float64 {
	if c.FilterRadius == nil {
		return 50.0
	}
	return *c.FilterRadius
}

// GetJitterMoveThreshold returns the anti-jitter move threshold, in
// screen percentage points.
func (c *TuningConfig) GetJitterMoveThreshold() float64 {
	if c.JitterMoveThreshold == nil {
		return 0.5
	}
	return *c.JitterMoveThreshold
}

// GetUseAntiJitter returns whether anti-jitter suppression is enabled.
func (c *TuningConfig) GetUseAntiJitter() bool {
	if c.UseAntiJitter == nil {
		return true
	}
	return *c.UseAntiJitter
}

// GetROIExpansionFactor returns the fractional padding applied to a
// detected quad's bounding box when recomputing the ROI.
func (c *TuningConfig) GetROIExpansionFactor() float64 {
	if c.ROIExpansionFactor == nil {
		return 0.15
	}
	return *c.ROIExpansionFactor
}

// GetCornerBrightnessFloor returns the per-channel brightness floor
// used by corner sub-pixel refinement's CheckPixel test.
func (c *TuningConfig) GetCornerBrightnessFloor() int {
	if c.CornerBrightnessFloor == nil {
		return 64
	}
	return *c.CornerBrightnessFloor
}

// GetYSightOffset returns the default Y-sight-offset percentage.
func (c *TuningConfig) GetYSightOffset() float64 {
	if c.YSightOffset == nil {
		return 0
	}
	return *c.YSightOffset
}

func (c *TuningConfig) getDuration(raw *string, def time.Duration) time.Duration {
	if raw == nil || *raw == "" {
		return def
	}
	d, err := time.ParseDuration(*raw)
	if err != nil {
		return def
	}
	return d
}

// GetConnectTimeout returns the overall connect-sequence timeout.
func (c *TuningConfig) GetConnectTimeout() time.Duration {
	return c.getDuration(c.ConnectTimeout, 2*time.Second)
}

// GetConnectFlushDelay returns the settle delay after the Connect frame.
func (c *TuningConfig) GetConnectFlushDelay() time.Duration {
	return c.getDuration(c.ConnectFlushDelay, 100*time.Millisecond)
}

// GetHandshakeSettleDelay returns the settle delay after the Handshake frame.
func (c *TuningConfig) GetHandshakeSettleDelay() time.Duration {
	return c.getDuration(c.HandshakeSettleDelay, 5*time.Millisecond)
}

// GetAuthenticatedRepeatDelay returns the delay between the two
// Authenticated frames.
func (c *TuningConfig) GetAuthenticatedRepeatDelay() time.Duration {
	return c.getDuration(c.AuthenticatedRepeatDelay, 100*time.Millisecond)
}

// GetStartSettleDelay returns the settle delay at the end of the start procedure.
func (c *TuningConfig) GetStartSettleDelay() time.Duration {
	return c.getDuration(c.StartSettleDelay, 100*time.Millisecond)
}

// GetDebugResponseWindow returns how long Debug waits for a response.
func (c *TuningConfig) GetDebugResponseWindow() time.Duration {
	return c.getDuration(c.DebugResponseWindow, 100*time.Millisecond)
}

// ProtocolTiming is the subset of TuningConfig needed to build a
// protocol.Timing table, expressed structurally so this package does
// not need to import internal/protocol.
type ProtocolTiming struct {
	ConnectFlushDelay        time.Duration
	HandshakeSettleDelay     time.Duration
	AuthenticatedRepeatDelay time.Duration
	StartSettleDelay         time.Duration
	DebugResponseWindow      time.Duration
	ConnectTimeout           time.Duration
}

// Timing builds the protocol timing table from the tuning config,
// falling back to production defaults for any interval left unset.
func (c *TuningConfig) Timing() ProtocolTiming {
	return ProtocolTiming{
		ConnectFlushDelay:        c.GetConnectFlushDelay(),
		HandshakeSettleDelay:     c.GetHandshakeSettleDelay(),
		AuthenticatedRepeatDelay: c.GetAuthenticatedRepeatDelay(),
		StartSettleDelay:         c.GetStartSettleDelay(),
		DebugResponseWindow:      c.GetDebugResponseWindow(),
		ConnectTimeout:           c.GetConnectTimeout(),
	}
}

// VideoTuning is the subset of TuningConfig the video pipeline reads at
// startup to override settings.DefaultVideoSettings.
type VideoTuning struct {
	FilterRadius        float64
	JitterMoveThreshold  float64
	UseAntiJitter        bool
	ROIExpansionFactor   float64
	CornerBrightnessFloor int
	YSightOffset         float64
}

// Video builds the video tuning subset from the config.
func (c *TuningConfig) Video() VideoTuning {
	return VideoTuning{
		FilterRadius:          c.GetFilterRadius(),
		JitterMoveThreshold:   c.GetJitterMoveThreshold(),
		UseAntiJitter:         c.GetUseAntiJitter(),
		ROIExpansionFactor:    c.GetROIExpansionFactor(),
		CornerBrightnessFloor: c.GetCornerBrightnessFloor(),
		YSightOffset:          c.GetYSightOffset(),
	}
}
