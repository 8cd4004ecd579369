package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// SetValue sets a setting by its YAML key, e.g. "host_version" or
// "http_timeout". The result is not validated.
func (c *Config) SetValue(key, value string) error {
	field, ok := settingsField(reflect.ValueOf(&c.Settings).Elem(), key)
	if !ok {
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	switch {
	case field.Type() == reflect.TypeOf(time.Duration(0)):
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %s", key, value)
		}
		field.SetInt(int64(d))
	case field.Kind() == reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		field.SetInt(int64(n))
	case field.Kind() == reflect.String:
		field.SetString(value)
	default:
		return fmt.Errorf("unsupported configuration key: %s", key)
	}
	return nil
}

// GetValue returns a setting by its YAML key.
func (c *Config) GetValue(key string) (string, error) {
	field, ok := settingsField(reflect.ValueOf(c.Settings), key)
	if !ok {
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
	return formatValue(field), nil
}

// ToMap flattens the settings into YAML key / string value pairs.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)

	settingsValue := reflect.ValueOf(c.Settings)
	settingsType := settingsValue.Type()
	for i := 0; i < settingsValue.NumField(); i++ {
		key := yamlKey(settingsType.Field(i))
		if key == "" {
			continue
		}
		result[key] = formatValue(settingsValue.Field(i))
	}
	return result
}

func settingsField(v reflect.Value, key string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if yamlKey(t.Field(i)) == key {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// Handle yaml tags with options (e.g., "plugins_dir,omitempty")
func yamlKey(f reflect.StructField) string {
	tag := f.Tag.Get("yaml")
	if tag == "" || tag == "-" {
		return ""
	}
	return strings.Split(tag, ",")[0]
}

func formatValue(v reflect.Value) string {
	if d, ok := v.Interface().(time.Duration); ok {
		return d.String()
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.String:
		return v.String()
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
