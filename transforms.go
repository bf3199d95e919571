package sift

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultTransforms returns the built-in transform registry. The map is
// freshly allocated so callers can extend or override entries before
// binding.
func DefaultTransforms() map[string]Transform {
	return map[string]Transform{
		"int":   toInt,
		"float": toFloat,
		"bool":  toBool,
		"str":   toString,
		"len":   toLen,
		"strip": stringTransform("strip", strings.TrimSpace),
		"lower": stringTransform("lower", strings.ToLower),
		"upper": stringTransform("upper", strings.ToUpper),
		"clean": stringTransform("clean", cleanSpace),
	}
}

func toInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("transform int: %w", err)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("transform int: unsupported type %T", value)
	}
}

func toFloat(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("transform float: %w", err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("transform float: unsupported type %T", value)
	}
}

func toBool(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case float64:
		return v != 0, nil
	case int:
		return v != 0, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("transform bool: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("transform bool: unsupported type %T", value)
	}
}

func toString(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

func toLen(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return len(v), nil
	case []any:
		return len(v), nil
	case map[string]any:
		return len(v), nil
	default:
		return nil, fmt.Errorf("transform len: unsupported type %T", value)
	}
}

func stringTransform(name string, fn func(string) string) Transform {
	return func(value any) (any, error) {
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("transform %s: expected string, got %T", name, value)
		}
		return fn(s), nil
	}
}

// cleanSpace collapses runs of whitespace into single spaces and trims the
// ends.
func cleanSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
