package groups

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a group export from disk. See Decode for the accepted shapes.
func LoadFile(path string) ([]Group, error) {
	//nolint:gosec // G304: Import path is supplied by the operator on purpose
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, importError(fmt.Sprintf("read %s", path), err)
	}
	groups, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// Decode parses a YAML or JSON group export. Two shapes are accepted: a list
// of records, or a mapping from id to record (the record's own id wins when
// present). Fields are read loosely, the way stored documents are: records
// without a usable id are dropped, a non-string parentId means root, and a
// non-numeric order is 0. Nothing is checked against the hierarchy.
func Decode(data []byte) ([]Group, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, importError("parse group export", err)
	}

	var out []Group
	switch doc := raw.(type) {
	case nil:
		return []Group{}, nil
	case []any:
		for _, item := range doc {
			if g, ok := recordToGroup("", item); ok {
				out = append(out, g)
			}
		}
	case map[any]any:
		return decodeMapping(stringKeys(doc)), nil
	case map[string]any:
		return decodeMapping(doc), nil
	default:
		return nil, importError(fmt.Sprintf("unsupported export document of type %T", raw), nil)
	}
	if out == nil {
		out = []Group{}
	}
	return out, nil
}

// decodeMapping reads an id-keyed export in key order.
func decodeMapping(doc map[string]any) []Group {
	out := []Group{}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if g, ok := recordToGroup(k, doc[k]); ok {
			out = append(out, g)
		}
	}
	return out
}

// stringKeys converts a mapping with non-string keys, such as unquoted
// numeric ids, into one keyed by their text.
func stringKeys(doc map[any]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[fmt.Sprint(k)] = v
	}
	return out
}

func recordToGroup(key string, item any) (Group, bool) {
	var rec map[string]any
	switch v := item.(type) {
	case map[string]any:
		rec = v
	case map[any]any:
		rec = stringKeys(v)
	default:
		return Group{}, false
	}
	id := stringField(rec, "id")
	if id == "" {
		id = strings.TrimSpace(key)
	}
	if id == "" {
		return Group{}, false
	}
	return Group{
		ID:          id,
		Name:        stringField(rec, "name"),
		Description: stringField(rec, "description"),
		ParentID:    stringField(rec, "parentId"),
		Order:       intField(rec, "order"),
		CreatedBy:   stringField(rec, "createdBy"),
		CreatedAt:   stringField(rec, "createdAt"),
		UpdatedAt:   stringField(rec, "updatedAt"),
	}, true
}

func stringField(rec map[string]any, name string) string {
	switch v := rec[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case int, int64, uint64, float64:
		return fmt.Sprint(v)
	}
	return ""
}

func intField(rec map[string]any, name string) int {
	switch v := rec[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
