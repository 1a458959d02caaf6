package configurator

import (
	"fmt"
	"strings"

	"github.com/zombor/onvacation-ocr/internal/extraction"
)

// ParseDigitMap reads a "from=to,from=to" flag value, e.g. "8=3,7=1", into
// the loose form accepted by extraction.DecodeConfig
func ParseDigitMap(value string) (map[string]any, error) {
	digits := map[string]any{}
	if strings.TrimSpace(value) == "" {
		return digits, nil
	}
	for _, pair := range strings.Split(value, ",") {
		from, to, ok := strings.Cut(pair, "=")
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if !ok || from == "" || to == "" {
			return nil, fmt.Errorf("invalid digit mapping %q: want from=to", strings.TrimSpace(pair))
		}
		digits[from] = to
	}
	return digits, nil
}

// BuildConfig combines the CLI flag values into an extraction.Config
func BuildConfig(maxValue int, digitMap string) (extraction.Config, error) {
	digits, err := ParseDigitMap(digitMap)
	if err != nil {
		return extraction.Config{}, err
	}
	return extraction.DecodeConfig(map[string]any{
		"max_value": maxValue,
		"digit_map": digits,
	})
}
