// Package platformconfig loads process configuration from environment variables into
// plain structs, the same reflection-over-struct-tags shape every brightpath component uses.
package platformconfig

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Load populates dst (a pointer to a struct) by reading the "env" tag of each field from the
// process environment. Supported field kinds: string, bool, int/int8/int16/int32/int64,
// float32/float64.
// Fields without an "env" tag are left untouched.
func Load(dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("platformconfig: Load requires a non-nil pointer, got %T", dst)
	}

	elem := v.Elem()
	t := elem.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		tag, ok := field.Tag.Lookup("env")
		if !ok {
			continue
		}

		parts := strings.SplitN(tag, ",", 2)
		key := parts[0]

		fv := elem.Field(i)
		if !fv.CanSet() {
			continue
		}

		raw, present := os.LookupEnv(key)

		var defaultValue string
		if len(parts) == 2 && strings.HasPrefix(parts[1], "default=") {
			defaultValue = strings.TrimPrefix(parts[1], "default=")
		}

		if !present {
			raw = defaultValue
		}

		if err := setField(fv, raw); err != nil {
			return fmt.Errorf("platformconfig: field %s (env %s): %w", field.Name, key, err)
		}
	}

	return nil
}

func setField(fv reflect.Value, raw string) error {
	switch fv.Kind() {
	case reflect.Bool:
		if strings.TrimSpace(raw) == "" {
			return nil
		}

		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}

		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if strings.TrimSpace(raw) == "" {
			return nil
		}

		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}

		fv.SetInt(n)
	case reflect.Float32, reflect.Float64:
		if strings.TrimSpace(raw) == "" {
			return nil
		}

		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}

		fv.SetFloat(f)
	default:
		fv.SetString(raw)
	}

	return nil
}

// LoadDotEnvIfLocal loads a .env file into the process environment when ENV_NAME is unset or
// "local". It is a no-op (and not an error) when no .env file is present, since local-only
// convenience must never block a container that has no file to load.
func LoadDotEnvIfLocal() {
	env := os.Getenv("ENV_NAME")
	if env != "" && env != "local" {
		return
	}

	_ = godotenv.Load()
}
