package env

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const defaultSeparator = ","

// MarshalEnv renders a struct with caarlos0/env style tags as .env content.
// Zero values are skipped so envDefault keeps working on the next start.
func MarshalEnv(c any) (string, error) {
	v := reflect.ValueOf(c)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return "", fmt.Errorf("marshal env: expected pointer to struct, got %T", c)
	}
	v = v.Elem()
	t := v.Type()

	var lines []string
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		// "KEY,required,notEmpty" -> "KEY"
		key := strings.Split(field.Tag.Get("env"), ",")[0]
		if key == "" {
			continue
		}

		val := v.Field(i)
		if val.IsZero() {
			continue
		}

		sep := field.Tag.Get("envSeparator")
		if sep == "" {
			sep = defaultSeparator
		}

		lines = append(lines, fmt.Sprintf("%s=%s", key, quote(formatValue(val, sep))))
	}

	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}

func formatValue(v reflect.Value, sep string) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if d, ok := v.Interface().(fmt.Stringer); ok && v.Type().PkgPath() == "time" {
			return d.String()
		}
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Slice:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = formatValue(v.Index(i), sep)
		}
		return strings.Join(parts, sep)
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// quote wraps values that godotenv would otherwise split or truncate.
func quote(s string) string {
	if strings.ContainsAny(s, " #\"'\n") {
		return strconv.Quote(s)
	}
	return s
}
