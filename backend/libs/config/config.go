package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigPathEnv = "CONFIG_FILE"

var durationType = reflect.TypeOf(time.Duration(0))

// LookupFunc resolves an environment key.
type LookupFunc func(key string) (string, bool)

// LoadConfig hydrates the provided struct pointer in three layers: `default:"..."` struct
// tags, the YAML file named by CONFIG_FILE (optional), then environment variables. Nested
// structs get PARENT_CHILD keys unless an explicit `env:"CUSTOM_KEY"` tag is present.
func LoadConfig(target interface{}) error {
	return LoadConfigFrom(target, os.LookupEnv)
}

// LoadConfigFrom is LoadConfig with a custom environment lookup.
func LoadConfigFrom(target interface{}, lookup LookupFunc) error {
	if target == nil {
		return errors.New("config: target is nil")
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}

	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return errors.New("config: target must be pointer to struct")
	}

	if err := applyDefaults(val.Elem()); err != nil {
		return err
	}

	if path, ok := lookup(defaultConfigPathEnv); ok && path != "" {
		if err := loadFromFile(path, target); err != nil {
			return err
		}
	}

	return populateFromEnv(val.Elem(), "", lookup)
}

func loadFromFile(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	if doc.Kind == 0 {
		return nil
	}
	secondsToDurations(&doc, reflect.TypeOf(target).Elem())
	if err := doc.Decode(target); err != nil {
		return fmt.Errorf("config: decode yaml: %w", err)
	}

	return nil
}

// secondsToDurations rewrites integer scalars bound to time.Duration fields
// as seconds so the file accepts the same forms as the environment.
func secondsToDurations(node *yaml.Node, t reflect.Type) {
	if node.Kind == yaml.DocumentNode {
		for _, child := range node.Content {
			secondsToDurations(child, t)
		}
		return
	}
	if node.Kind != yaml.MappingNode || t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		field, ok := yamlField(t, node.Content[i].Value)
		if !ok {
			continue
		}
		value := node.Content[i+1]
		switch {
		case field.Type == durationType:
			if value.Kind == yaml.ScalarNode && value.ShortTag() == "!!int" {
				value.Value += "s"
				value.Tag = "!!str"
			}
		case field.Type.Kind() == reflect.Struct:
			secondsToDurations(value, field.Type)
		}
	}
}

func yamlField(t reflect.Type, key string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		if name == key {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

func applyDefaults(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fieldVal := v.Field(i)
		fieldType := t.Field(i)
		if !fieldVal.CanSet() {
			continue
		}
		if fieldVal.Kind() == reflect.Struct && fieldVal.Type() != durationType {
			if err := applyDefaults(fieldVal); err != nil {
				return err
			}
			continue
		}
		def, ok := fieldType.Tag.Lookup("default")
		if !ok || !fieldVal.IsZero() {
			continue
		}
		if err := assign(fieldVal, def); err != nil {
			return fmt.Errorf("config: default for %s: %w", fieldType.Name, err)
		}
	}
	return nil
}

func populateFromEnv(v reflect.Value, prefix string, lookup LookupFunc) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fieldVal := v.Field(i)
		fieldType := t.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if fieldType.Anonymous {
			if err := populateFromEnv(fieldVal, prefix, lookup); err != nil {
				return err
			}
			continue
		}

		rawKey := fieldType.Tag.Get("env")
		if rawKey == "-" {
			continue
		}

		var envKey string
		if rawKey != "" {
			envKey = normalizeKey("", rawKey)
		} else {
			envKey = normalizeKey(prefix, fieldType.Name)
		}

		if fieldVal.Kind() == reflect.Struct && fieldVal.Type() != durationType {
			if err := populateFromEnv(fieldVal, envKey, lookup); err != nil {
				return err
			}
			continue
		}

		if val, ok := lookup(envKey); ok {
			if err := assign(fieldVal, val); err != nil {
				return fmt.Errorf("config: parse %s: %w", envKey, err)
			}
		}
	}
	return nil
}

func normalizeKey(prefix, key string) string {
	key = strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", prefix, key)
}

// assign parses value into field. Durations accept Go syntax ("90s", "30m")
// or a bare integer number of seconds.
func assign(field reflect.Value, value string) error {
	value = strings.TrimSpace(value)
	if field.Type() == durationType {
		d, err := parseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(parsed)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(parsed)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(parsed)
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(parsed)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported field type %s", field.Type().String())
		}
		var items []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		field.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported field type %s", field.Type().String())
	}
	return nil
}

func parseDuration(value string) (time.Duration, error) {
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(value)
}
