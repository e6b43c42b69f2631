package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

func toInt(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x != float64(int(x)) {
			return nil, errors.Wrapf(ErrInvalidValue, "%v is not an integer", v)
		}
		return int(x), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidValue, "%q is not an integer", x)
		}
		return i, nil
	}
	return nil, errors.Wrapf(ErrInvalidValue, "%v (%T) is not an integer", v, v)
}

func positiveInt(v interface{}) (interface{}, error) {
	i, err := toInt(v)
	if err != nil {
		return nil, err
	}
	if i.(int) <= 0 {
		return nil, errors.Wrapf(ErrInvalidValue, "%d must be positive", i)
	}
	return i, nil
}

func toFloat(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidValue, "%q is not a number", x)
		}
		return f, nil
	}
	return nil, errors.Wrapf(ErrInvalidValue, "%v (%T) is not a number", v, v)
}

func fraction(v interface{}) (interface{}, error) {
	f, err := toFloat(v)
	if err != nil {
		return nil, err
	}
	if x := f.(float64); x <= 0 || x >= 1 {
		return nil, errors.Wrapf(ErrInvalidValue, "%v must be between 0 and 1", x)
	}
	return f, nil
}

func toBool(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidValue, "%q is not a boolean", x)
		}
		return b, nil
	}
	return nil, errors.Wrapf(ErrInvalidValue, "%v (%T) is not a boolean", v, v)
}

func toString(v interface{}) (interface{}, error) {
	s, ok := v.(string)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidValue, "%v (%T) is not a string", v, v)
	}
	return s, nil
}

func toStrings(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case []string:
		return append([]string(nil), x...), nil
	case string:
		return strings.Split(x, ","), nil
	case []interface{}:
		out := make([]string, len(x))
		for i, e := range x {
			s, ok := e.(string)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidValue, "element %d (%v) is not a string", i, e)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, errors.Wrapf(ErrInvalidValue, "%v (%T) is not a list of strings", v, v)
}

func logLevel(v interface{}) (interface{}, error) {
	s, err := toString(v)
	if err != nil {
		return nil, err
	}
	switch lvl := strings.ToLower(s.(string)); lvl {
	case "debug", "info", "warn", "error":
		return lvl, nil
	}
	return nil, errors.Wrapf(ErrInvalidValue, "unknown log level %q", s)
}
