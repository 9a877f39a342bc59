// Package settings loads the build settings script of a bundle and exposes
// its indirection table.
//
// A packed import document stores many assets in one JSON array. The
// identifier of the asset at position i of document k is not stored in the
// document itself; it lives in the settings script as packedAssets[k][i],
// either as a compact identifier literal or as an integer index into the
// shared uuids pool. [Table] inverts that packing.
package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/matzehuels/ccreverse/pkg/errors"
)

// Settings is the subset of the build settings the reconstruction needs.
type Settings struct {
	Table           *Table
	Subpackages     []string
	JSList          []string
	LaunchScene     string
	GroupList       []string
	CollisionMatrix [][]bool
}

// HasSubpackages reports whether the build declares any sub-package.
func (s *Settings) HasSubpackages() bool { return len(s.Subpackages) > 0 }

// Load reads a settings file. Files ending in .json are decoded as JSON;
// anything else is treated as the settings.js script of a web build.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "settings file not found").WithPath(path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read settings").WithPath(path)
	}
	var s *Settings
	if filepath.Ext(path) == ".json" {
		s, err = ParseJSON(data)
	} else {
		s, err = ParseScript(data)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSettings, err, "parse settings").WithPath(path)
	}
	return s, nil
}

// ParseJSON decodes settings stored as plain JSON.
func ParseJSON(data []byte) (*Settings, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return fromMap(raw)
}

// ParseScript extracts the object literal assigned to window._CCSettings
// (or the first object literal in the script) and decodes it.
func ParseScript(data []byte) (*Settings, error) {
	start := literalStart(data)
	if start < 0 {
		return nil, fmt.Errorf("no settings object literal found")
	}
	v, _, err := parseLiteral(data[start:])
	if err != nil {
		return nil, err
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("settings literal is %T, want object", v)
	}
	return fromMap(raw)
}

func literalStart(data []byte) int {
	if i := bytes.Index(data, []byte("_CCSettings")); i >= 0 {
		rest := data[i:]
		if eq := bytes.IndexByte(rest, '='); eq >= 0 {
			if br := bytes.IndexByte(rest[eq:], '{'); br >= 0 {
				return i + eq + br
			}
		}
	}
	return bytes.IndexByte(data, '{')
}

func fromMap(raw map[string]any) (*Settings, error) {
	table, err := buildTable(raw)
	if err != nil {
		return nil, err
	}
	s := &Settings{Table: table}

	if subs, ok := raw["subpackages"].(map[string]any); ok {
		for name := range subs {
			s.Subpackages = append(s.Subpackages, name)
		}
		sort.Strings(s.Subpackages)
	}
	s.JSList = stringList(raw["jsList"])
	s.GroupList = stringList(raw["groupList"])
	if scene, ok := raw["launchScene"].(string); ok {
		s.LaunchScene = scene
	}
	if rows, ok := raw["collisionMatrix"].([]any); ok {
		for _, row := range rows {
			cells, _ := row.([]any)
			out := make([]bool, len(cells))
			for i, c := range cells {
				out[i], _ = c.(bool)
			}
			s.CollisionMatrix = append(s.CollisionMatrix, out)
		}
	}
	return s, nil
}

func buildTable(raw map[string]any) (*Table, error) {
	t := &Table{Packed: make(map[string][]Entry)}
	if pool, ok := raw["uuids"]; ok {
		items, ok := pool.([]any)
		if !ok {
			return nil, fmt.Errorf("uuids is %T, want array", pool)
		}
		t.UUIDs = make([]string, len(items))
		for i, item := range items {
			id, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("uuids[%d] is %T, want string", i, item)
			}
			t.UUIDs[i] = id
		}
	}
	packed, ok := raw["packedAssets"]
	if !ok {
		return t, nil
	}
	docs, ok := packed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("packedAssets is %T, want object", packed)
	}
	for key, v := range docs {
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("packedAssets[%s] is %T, want array", key, v)
		}
		entries := make([]Entry, len(items))
		for i, item := range items {
			switch x := item.(type) {
			case float64:
				entries[i] = IndexEntry(int(x))
			case string:
				entries[i] = LiteralEntry(x)
			default:
				return nil, fmt.Errorf("packedAssets[%s][%d] is %T", key, i, item)
			}
		}
		t.Packed[key] = entries
	}
	return t, nil
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
