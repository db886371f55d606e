package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// envOverrides applies every `env` tag under v whose variable is set and
// returns the names of the variables it used, in field order. Nested
// sections are visited depth first; fields tagged `env:"-"` are skipped.
func envOverrides(v interface{}) ([]string, error) {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("config must be a pointer to a struct, got %T", v)
	}

	var used []string
	err := walkEnv(val.Elem(), func(name string, field reflect.Value, raw string) error {
		if err := assign(field, raw); err != nil {
			return fmt.Errorf("env var %s: %w", name, err)
		}
		used = append(used, name)
		return nil
	})
	return used, err
}

func walkEnv(val reflect.Value, apply func(name string, field reflect.Value, raw string) error) error {
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if field.Kind() == reflect.Struct {
			if err := walkEnv(field, apply); err != nil {
				return err
			}
			continue
		}

		name := typ.Field(i).Tag.Get("env")
		if name == "" || name == "-" {
			continue
		}
		if raw, ok := os.LookupEnv(name); ok {
			if err := apply(name, field, raw); err != nil {
				return err
			}
		}
	}
	return nil
}

// assign converts raw into the kind of field. Durations stay strings in
// Config and are parsed by their consumers.
func assign(field reflect.Value, raw string) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}
	raw = strings.TrimSpace(raw)

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", raw)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type %s", field.Kind())
	}
	return nil
}
