// Package format implements the single-character fill/scan DSL that drives
// a valuetree.Tree from a pattern string and a list of Go arguments. Fill
// builds a tree from arguments; Scan reads a tree into argument pointers.
// Both share the same grammar table.
package format

import "fmt"

func toUint64(a interface{}) (uint64, error) {
	switch v := a.(type) {
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case uint64:
		return v, nil
	case uint:
		return uint64(v), nil
	case int:
		return uint64(v), nil
	case int32:
		return uint64(v), nil
	case int64:
		return uint64(v), nil
	}
	return 0, fmt.Errorf("format: expected an unsigned integer argument, got %T", a)
}

func toInt64(a interface{}) (int64, error) {
	switch v := a.(type) {
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	}
	return 0, fmt.Errorf("format: expected an integer argument, got %T", a)
}

func toInt(a interface{}) (int, error) {
	v, err := toInt64(a)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func toFloat64(a interface{}) (float64, error) {
	switch v := a.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return 0, fmt.Errorf("format: expected a float argument, got %T", a)
}

func toBytes(a interface{}) ([]byte, error) {
	switch v := a.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	return nil, fmt.Errorf("format: expected a string or []byte argument, got %T", a)
}

func toRune(a interface{}) (rune, error) {
	switch v := a.(type) {
	case rune:
		return v, nil
	case byte:
		return rune(v), nil
	}
	return 0, fmt.Errorf("format: expected a rune argument, got %T", a)
}
