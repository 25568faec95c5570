package toml

import (
	"bytes"
	"cmp"
	"encoding"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

var textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()

// Marshal encodes a struct, or a map with string keys, as a TOML document.
// Scalars and arrays of a table come before its sub-tables; map keys are sorted.
func Marshal(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("toml: cannot marshal nil pointer")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct && rv.Kind() != reflect.Map {
		return nil, fmt.Errorf("toml: cannot marshal %s as a document", rv.Kind())
	}

	var buf bytes.Buffer
	if err := encodeTable(&buf, rv, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type entry struct {
	key string
	val reflect.Value
}

func tableEntries(rv reflect.Value) ([]entry, error) {
	var out []entry
	switch rv.Kind() {
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, omitEmpty := fieldName(f)
			if name == "" || omitEmpty && rv.Field(i).IsZero() {
				continue
			}
			out = append(out, entry{name, rv.Field(i)})
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("toml: map key must be a string")
		}
		for _, k := range rv.MapKeys() {
			out = append(out, entry{k.String(), rv.MapIndex(k)})
		}
		slices.SortFunc(out, func(a, b entry) int {
			return cmp.Compare(a.key, b.key)
		})
	}
	return out, nil
}

func isTable(v reflect.Value) bool {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	if v.Type() == durationType || v.Type().Implements(textMarshalerType) {
		return false
	}
	return v.Kind() == reflect.Struct || v.Kind() == reflect.Map
}

func encodeTable(buf *bytes.Buffer, rv reflect.Value, prefix string) error {
	entries, err := tableEntries(rv)
	if err != nil {
		return err
	}

	var tables []entry
	for _, e := range entries {
		if isTable(e.val) {
			tables = append(tables, e)
			continue
		}
		if (e.val.Kind() == reflect.Pointer || e.val.Kind() == reflect.Interface) && e.val.IsNil() {
			continue
		}
		fmt.Fprintf(buf, "%s = ", quoteKey(e.key))
		if err := encodeValue(buf, e.val); err != nil {
			return fmt.Errorf("toml: %s: %w", join(prefix, e.key), err)
		}
		buf.WriteByte('\n')
	}

	for _, e := range tables {
		name := join(prefix, quoteKey(e.key))
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(buf, "[%s]\n", name)
		v := e.val
		for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
			v = v.Elem()
		}
		if err := encodeTable(buf, v, name); err != nil {
			return err
		}
	}
	return nil
}

func encodeValue(buf *bytes.Buffer, v reflect.Value) error {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if v.Type() == durationType {
		buf.WriteString(strconv.Quote(time.Duration(v.Int()).String()))
		return nil
	}
	if v.Type().Implements(textMarshalerType) {
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return err
		}
		buf.WriteString(strconv.Quote(string(text)))
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		buf.WriteString(strconv.Quote(v.String()))
	case reflect.Bool:
		buf.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		buf.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		buf.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		s := strconv.FormatFloat(v.Float(), 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnNI") {
			s += ".0"
		}
		buf.WriteString(s)
	case reflect.Slice, reflect.Array:
		buf.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := encodeValue(buf, v.Index(i)); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("unsupported kind %s", v.Kind())
	}
	return nil
}

func quoteKey(k string) string {
	if k == "" {
		return `""`
	}
	for i := 0; i < len(k); i++ {
		if !isBareChar(k[i]) || k[i] == '+' {
			return strconv.Quote(k)
		}
	}
	return k
}
