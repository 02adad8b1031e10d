package domain

import (
	"fmt"
	"math"
	"sort"
)

// ValueKind tags the variant held by a ConfigValue.
type ValueKind int

const (
	ValueInvalid ValueKind = iota
	ValueString
	ValueInt
	ValueBool
	ValueList
	ValueMap
)

// String returns the name of the value kind.
func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueInt:
		return "int"
	case ValueBool:
		return "bool"
	case ValueList:
		return "list"
	case ValueMap:
		return "map"
	default:
		return "invalid"
	}
}

// ConfigValue is a tagged value: string, int, bool, or a nested list/map of
// the same. The zero value is invalid.
type ConfigValue struct {
	kind ValueKind
	str  string
	num  int64
	flag bool
	list []ConfigValue
	dict ConfigMap
}

// ConfigMap maps configuration keys to tagged values. It is produced outside
// the frontend adapter and handed, uninterpreted, to the service factory.
type ConfigMap map[string]ConfigValue

// StringValue wraps a string.
func StringValue(s string) ConfigValue {
	return ConfigValue{kind: ValueString, str: s}
}

// IntValue wraps an integer.
func IntValue(n int64) ConfigValue {
	return ConfigValue{kind: ValueInt, num: n}
}

// BoolValue wraps a boolean.
func BoolValue(b bool) ConfigValue {
	return ConfigValue{kind: ValueBool, flag: b}
}

// ListValue wraps a list of values.
func ListValue(items ...ConfigValue) ConfigValue {
	return ConfigValue{kind: ValueList, list: append([]ConfigValue(nil), items...)}
}

// MapValue wraps a nested map.
func MapValue(m ConfigMap) ConfigValue {
	return ConfigValue{kind: ValueMap, dict: m.Clone()}
}

// Kind returns the variant tag.
func (v ConfigValue) Kind() ValueKind { return v.kind }

// AsString returns the string payload.
func (v ConfigValue) AsString() (string, bool) {
	return v.str, v.kind == ValueString
}

// AsInt returns the integer payload.
func (v ConfigValue) AsInt() (int64, bool) {
	return v.num, v.kind == ValueInt
}

// AsBool returns the boolean payload.
func (v ConfigValue) AsBool() (bool, bool) {
	return v.flag, v.kind == ValueBool
}

// AsList returns a copy of the list payload.
func (v ConfigValue) AsList() ([]ConfigValue, bool) {
	if v.kind != ValueList {
		return nil, false
	}

	return append([]ConfigValue(nil), v.list...), true
}

// AsMap returns a copy of the nested map payload.
func (v ConfigValue) AsMap() (ConfigMap, bool) {
	if v.kind != ValueMap {
		return nil, false
	}

	return v.dict.Clone(), true
}

// Interface converts the value back to plain Go types
// (string, int64, bool, []any, map[string]any).
func (v ConfigValue) Interface() any {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueInt:
		return v.num
	case ValueBool:
		return v.flag
	case ValueList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}

		return out
	case ValueMap:
		return v.dict.Interface()
	default:
		return nil
	}
}

// String formats the payload for logs.
func (v ConfigValue) String() string {
	return fmt.Sprintf("%v", v.Interface())
}

// Clone returns a deep copy of the map.
func (m ConfigMap) Clone() ConfigMap {
	if m == nil {
		return nil
	}

	out := make(ConfigMap, len(m))
	for k, v := range m {
		switch v.kind {
		case ValueList:
			out[k] = ListValue(v.list...)
		case ValueMap:
			out[k] = MapValue(v.dict)
		default:
			out[k] = v
		}
	}

	return out
}

// Keys returns the keys in sorted order.
func (m ConfigMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Interface converts the map to map[string]any.
func (m ConfigMap) Interface() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v.Interface()
	}

	return out
}

// Lookup returns the raw value for key.
func (m ConfigMap) Lookup(key string) (ConfigValue, bool) {
	v, ok := m[key]
	return v, ok
}

// String returns the string at key, def when absent.
// A present value of another kind is reported as an InvalidArgumentError.
func (m ConfigMap) String(key, def string) (string, error) {
	v, ok := m[key]
	if !ok {
		return def, nil
	}

	s, ok := v.AsString()
	if !ok {
		return def, typeMismatch(key, ValueString, v.kind)
	}

	return s, nil
}

// Int returns the integer at key, def when absent.
func (m ConfigMap) Int(key string, def int64) (int64, error) {
	v, ok := m[key]
	if !ok {
		return def, nil
	}

	n, ok := v.AsInt()
	if !ok {
		return def, typeMismatch(key, ValueInt, v.kind)
	}

	return n, nil
}

// Bool returns the boolean at key, def when absent.
func (m ConfigMap) Bool(key string, def bool) (bool, error) {
	v, ok := m[key]
	if !ok {
		return def, nil
	}

	b, ok := v.AsBool()
	if !ok {
		return def, typeMismatch(key, ValueBool, v.kind)
	}

	return b, nil
}

func typeMismatch(key string, want, got ValueKind) error {
	return NewInvalidArgumentError(fmt.Sprintf("config key %q: expected %s, got %s", key, want, got))
}

// ConfigMapFromAny converts loosely typed loader output into a ConfigMap.
// Whole floats and all integer widths become ints.
func ConfigMapFromAny(raw map[string]any) (ConfigMap, error) {
	out := make(ConfigMap, len(raw))

	for k, item := range raw {
		v, err := valueFromAny(k, item)
		if err != nil {
			return nil, err
		}

		out[k] = v
	}

	return out, nil
}

func valueFromAny(path string, item any) (ConfigValue, error) {
	switch x := item.(type) {
	case ConfigValue:
		return x, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int8:
		return IntValue(int64(x)), nil
	case int16:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint:
		return uintValue(path, uint64(x))
	case uint8:
		return IntValue(int64(x)), nil
	case uint16:
		return IntValue(int64(x)), nil
	case uint32:
		return IntValue(int64(x)), nil
	case uint64:
		return uintValue(path, x)
	case float64:
		return floatValue(path, x)
	case float32:
		return floatValue(path, float64(x))
	case []any:
		items := make([]ConfigValue, len(x))

		for i, elem := range x {
			v, err := valueFromAny(fmt.Sprintf("%s[%d]", path, i), elem)
			if err != nil {
				return ConfigValue{}, err
			}

			items[i] = v
		}

		return ConfigValue{kind: ValueList, list: items}, nil
	case []string:
		items := make([]ConfigValue, len(x))
		for i, s := range x {
			items[i] = StringValue(s)
		}

		return ConfigValue{kind: ValueList, list: items}, nil
	case map[string]any:
		nested := make(ConfigMap, len(x))

		for k, elem := range x {
			v, err := valueFromAny(path+"."+k, elem)
			if err != nil {
				return ConfigValue{}, err
			}

			nested[k] = v
		}

		return ConfigValue{kind: ValueMap, dict: nested}, nil
	default:
		return ConfigValue{}, NewInvalidArgumentError(
			fmt.Sprintf("config key %q: unsupported value type %T", path, item))
	}
}

func uintValue(path string, n uint64) (ConfigValue, error) {
	if n > math.MaxInt64 {
		return ConfigValue{}, NewInvalidArgumentError(
			fmt.Sprintf("config key %q: value %d overflows int64", path, n))
	}

	return IntValue(int64(n)), nil
}

// floatValue accepts whole floats in [-2^63, 2^63). float64(MaxInt64) rounds
// up to 2^63, so the upper bound is exclusive.
func floatValue(path string, f float64) (ConfigValue, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return ConfigValue{}, NewInvalidArgumentError(
			fmt.Sprintf("config key %q: %v is not an integer", path, f))
	}

	return IntValue(int64(f)), nil
}
