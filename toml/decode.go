package toml

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

var (
	durationType        = reflect.TypeFor[time.Duration]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Unmarshal parses data and stores the result in the value pointed to by v.
// Struct fields match their toml tag, or the field name when untagged.
// Keys with no matching field are ignored.
func Unmarshal(data []byte, v any) error {
	tree, err := Parse(data)
	if err != nil {
		return err
	}
	return Decode(tree, v)
}

// Decode stores a tree produced by Parse into the value pointed to by v
func Decode(tree map[string]any, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("toml: decode target must be a non-nil pointer, got %T", v)
	}
	return decode(tree, rv.Elem(), "")
}

func decode(data any, rv reflect.Value, path string) error {
	if rv.CanAddr() && rv.Addr().Type().Implements(textUnmarshalerType) {
		s, ok := data.(string)
		if !ok {
			return typeError(path, "string", data)
		}
		if err := rv.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return fmt.Errorf("toml: %s: %w", path, err)
		}
		return nil
	}

	if rv.Type() == durationType {
		switch d := data.(type) {
		case string:
			parsed, err := time.ParseDuration(d)
			if err != nil {
				return fmt.Errorf("toml: %s: %w", path, err)
			}
			rv.SetInt(int64(parsed))
		case int64:
			rv.SetInt(d)
		default:
			return typeError(path, "duration", data)
		}
		return nil
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return decode(data, rv.Elem(), path)

	case reflect.Struct:
		m, ok := data.(map[string]any)
		if !ok {
			return typeError(path, "table", data)
		}
		return decodeStruct(m, rv, path)

	case reflect.Map:
		m, ok := data.(map[string]any)
		if !ok {
			return typeError(path, "table", data)
		}
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("toml: %s: map key must be a string", path)
		}
		if rv.IsNil() {
			rv.Set(reflect.MakeMapWithSize(rv.Type(), len(m)))
		}
		for k, v := range m {
			elem := reflect.New(rv.Type().Elem()).Elem()
			if err := decode(v, elem, join(path, k)); err != nil {
				return err
			}
			rv.SetMapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()), elem)
		}

	case reflect.Slice:
		items, err := asList(data)
		if err != nil {
			return typeError(path, "array", data)
		}
		s := reflect.MakeSlice(rv.Type(), len(items), len(items))
		for i, item := range items {
			if err := decode(item, s.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		rv.Set(s)

	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return fmt.Errorf("toml: %s: cannot decode into %s", path, rv.Type())
		}
		rv.Set(reflect.ValueOf(data))

	case reflect.String:
		s, ok := data.(string)
		if !ok {
			return typeError(path, "string", data)
		}
		rv.SetString(s)

	case reflect.Bool:
		b, ok := data.(bool)
		if !ok {
			return typeError(path, "bool", data)
		}
		rv.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := data.(int64)
		if !ok {
			return typeError(path, "integer", data)
		}
		if rv.OverflowInt(n) {
			return fmt.Errorf("toml: %s: %d overflows %s", path, n, rv.Type())
		}
		rv.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := data.(int64)
		if !ok || n < 0 || rv.OverflowUint(uint64(n)) {
			return typeError(path, "non-negative integer", data)
		}
		rv.SetUint(uint64(n))

	case reflect.Float32, reflect.Float64:
		var f float64
		switch n := data.(type) {
		case float64:
			f = n
		case int64:
			f = float64(n)
		default:
			return typeError(path, "float", data)
		}
		if rv.Kind() == reflect.Float32 && math.Abs(f) > math.MaxFloat32 {
			return fmt.Errorf("toml: %s: %v overflows float32", path, f)
		}
		rv.SetFloat(f)

	default:
		return fmt.Errorf("toml: %s: unsupported kind %s", path, rv.Kind())
	}
	return nil
}

func decodeStruct(m map[string]any, rv reflect.Value, path string) error {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _ := fieldName(f)
		if name == "" {
			continue
		}
		v, ok := m[name]
		if !ok {
			continue
		}
		if err := decode(v, rv.Field(i), join(path, name)); err != nil {
			return err
		}
	}
	return nil
}

// fieldName returns the key of a struct field and whether it is omitempty;
// an empty name means the field is skipped
func fieldName(f reflect.StructField) (string, bool) {
	tag, ok := f.Tag.Lookup("toml")
	if !ok {
		return f.Name, false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "-" {
		return "", false
	}
	if name == "" {
		name = f.Name
	}
	return name, opts == "omitempty"
}

func asList(data any) ([]any, error) {
	switch l := data.(type) {
	case []any:
		return l, nil
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a list: %T", data)
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func typeError(path, want string, got any) error {
	return fmt.Errorf("toml: %s: expected %s, got %T", path, want, got)
}
