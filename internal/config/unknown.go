package config

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// sections maps nested mapping keys to their schema types.
var sections = map[string]reflect.Type{
	"adapters": reflect.TypeOf(AdapterSelection{}),
	"compare":  reflect.TypeOf(CompareSettings{}),
	"rubric":   reflect.TypeOf(RubricSettings{}),
	"grades":   reflect.TypeOf(GradeSettings{}),
}

// detectUnknownKeys reports keys the schema does not define. The
// parser ignores unknown keys, so a typo silently disables a setting
// unless surfaced here.
func detectUnknownKeys(data []byte) []string {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// The caller already parsed this data into Config.
		return []string{"internal: failed to re-parse config for unknown key detection"}
	}

	var warnings []string
	known := yamlFields(reflect.TypeOf(Config{}))
	for key := range raw {
		if !known[key] {
			warnings = append(warnings, fmt.Sprintf("unknown key %q (ignored)", key))
		}
	}

	for section, typ := range sections {
		nested, ok := raw[section].(map[string]any)
		if !ok {
			continue
		}
		knownNested := yamlFields(typ)
		for key := range nested {
			if !knownNested[key] {
				warnings = append(warnings,
					fmt.Sprintf("unknown key %q in %s (ignored)", key, section))
			}
		}
	}
	return warnings
}

// yamlFields returns the known YAML key names of a struct type.
func yamlFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			fields[name] = true
		}
	}
	return fields
}
