package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultMaxValue is the largest occupancy count accepted for a room.
	DefaultMaxValue = 6

	// lowOccupancyLimit is the max value up to which the default digit
	// corrections apply.
	lowOccupancyLimit = 6
)

// DefaultDigitCorrection fixes OCR digit confusions seen at low occupancy
// counts: 8 is a misread 3 and 7 a misread 1.
var DefaultDigitCorrection = map[int]int{8: 3, 7: 1}

// Config tunes the room extractor for a single call.
type Config struct {
	MaxValue int         `json:"max_value"`
	DigitMap map[int]int `json:"digit_map"`
}

// DefaultConfig returns the configuration used when a caller supplies none.
func DefaultConfig() Config {
	return Config{MaxValue: DefaultMaxValue, DigitMap: map[int]int{}}
}

// ConfigError reports a configuration value that is not an integer.
type ConfigError struct {
	Key   string
	Value any
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config value for %s: %v is not an integer", e.Key, e.Value)
}

// corrections merges the default digit corrections with the caller's map.
// Caller entries win.
func (c Config) corrections() map[int]int {
	merged := make(map[int]int, len(DefaultDigitCorrection)+len(c.DigitMap))
	if c.MaxValue <= lowOccupancyLimit {
		for from, to := range DefaultDigitCorrection {
			merged[from] = to
		}
	}
	for from, to := range c.DigitMap {
		merged[from] = to
	}
	return merged
}

// DecodeConfig builds a Config from loosely typed values such as a decoded
// JSON object. Missing keys keep their defaults. Integers, integral floats
// and numeric strings are accepted.
func DecodeConfig(raw map[string]any) (Config, error) {
	cfg := DefaultConfig()
	if raw == nil {
		return cfg, nil
	}

	if v, ok := raw["max_value"]; ok && v != nil {
		n, err := toInt("max_value", v)
		if err != nil {
			return Config{}, err
		}
		cfg.MaxValue = n
	}

	if v, ok := raw["digit_map"]; ok && v != nil {
		switch m := v.(type) {
		case map[string]any:
			for k, to := range m {
				key := "digit_map." + k
				from, err := toInt(key, k)
				if err != nil {
					return Config{}, err
				}
				n, err := toInt(key, to)
				if err != nil {
					return Config{}, err
				}
				cfg.DigitMap[from] = n
			}
		case map[int]int:
			for from, to := range m {
				cfg.DigitMap[from] = to
			}
		default:
			return Config{}, &ConfigError{Key: "digit_map", Value: v}
		}
	}
	return cfg, nil
}

// UnmarshalJSON decodes a config object, applying defaults for missing keys.
func (c *Config) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	cfg, err := DecodeConfig(raw)
	if err != nil {
		return err
	}
	*c = cfg
	return nil
}

func toInt(key string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		if n >= math.MinInt && n <= math.MaxInt {
			return int(n), nil
		}
	case float64:
		if integral(n) {
			return int(n), nil
		}
	case json.Number:
		if i, err := strconv.Atoi(n.String()); err == nil {
			return i, nil
		}
		if f, err := n.Float64(); err == nil && integral(f) {
			return int(f), nil
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, nil
		}
	}
	return 0, &ConfigError{Key: key, Value: v}
}

// integral reports whether f is a whole number that fits in an int.
func integral(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt && f < math.MaxInt
}
