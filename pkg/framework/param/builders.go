package param

import (
	"fmt"
	"strings"
)

// Choice creates a list parameter whose plain value is the option index.
// Parsing accepts the option name or its index, case-insensitively.
func Choice(id uint32, name string, options ...string) *Builder {
	parser := func(str string) (float64, error) {
		str = strings.TrimSpace(str)
		for i, opt := range options {
			if strings.EqualFold(str, opt) || strings.EqualFold(str, compact(opt)) {
				return float64(i), nil
			}
		}
		index, err := parseFloat(str)
		if err != nil || index < 0 || int(index) >= len(options) {
			return 0, fmt.Errorf("%w: %q is not one of %s", ErrInvalidValue, str, strings.Join(options, ", "))
		}
		return index, nil
	}

	return New(id, name).
		Labels(options...).
		Formatter(nil, parser)
}

// PercentParameter creates a 0-100 % amount parameter
func PercentParameter(id uint32, name string, defaultPercent float64) *Builder {
	return New(id, name).
		Range(0, 100).
		Default(defaultPercent).
		Unit("%").
		Formatter(PercentFormatter, PercentParser)
}

// SwitchParameter creates an Off/On toggle
func SwitchParameter(id uint32, name string) *Builder {
	return New(id, name).
		Toggle().
		Formatter(OnOffFormatter, OnOffParser)
}

// BypassParameter creates a bypass on/off switch
func BypassParameter(id uint32, name string) *Builder {
	return Choice(id, name, "Active", "Bypassed").Bypass()
}

// Meter creates a read-only value written back by the processor
func Meter(id uint32, name string, min, max float64) *Builder {
	return New(id, name).
		Range(min, max).
		Default(min).
		ReadOnly()
}

// Helper function to parse float with error handling
func parseFloat(s string) (float64, error) {
	var value float64
	_, err := fmt.Sscanf(s, "%f", &value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidValue, s)
	}
	return value, nil
}

func compact(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
