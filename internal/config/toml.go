package config

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	out := []string{"# notebook configuration (TOML)", ""}
	top, sections, order := splitOptions(GetConfigOptions())
	for _, o := range top {
		out = append(out, optionLines(o)...)
	}
	for _, section := range order {
		out = append(out, "["+section+"]")
		for _, o := range sections[section] {
			out = append(out, optionLines(o)...)
		}
	}
	return strings.Join(out, "\n")
}

// UpdateTOML merges missing defaults into an existing config and comments
// out keys that are no longer part of the schema. Missing top-level keys go
// before the first table, missing table keys at the end of their table.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines))
	seen := make(map[string]bool)
	sectionEnd := make(map[string]int)
	firstTable := -1
	section := ""
	changed := false

	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") {
			out = append(out, line)
			continue
		}
		if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
			if firstTable < 0 {
				firstTable = len(out)
			}
			section = strings.TrimSpace(trim[1 : len(trim)-1])
			out = append(out, line)
			sectionEnd[section] = len(out)
			continue
		}
		if key, ok := parseTOMLKey(line); ok {
			if section != "" {
				key = section + "." + key
			}
			if !known[key] {
				indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
				out = append(out, indent+"# OUTDATED: option removed from config schema", indent+"# "+trim)
				changed = true
				continue
			}
			seen[key] = true
			out = append(out, line)
			if section != "" {
				sectionEnd[section] = len(out)
			}
			continue
		}
		out = append(out, line)
	}
	if firstTable < 0 {
		firstTable = len(out)
	}

	inserts := make(map[int][]string)
	var newTables []string
	top, sections, order := splitOptions(GetConfigOptions())
	for _, o := range top {
		if !seen[o.Key] {
			inserts[firstTable] = append(inserts[firstTable], optionLines(o)...)
		}
	}
	for _, name := range order {
		var missing []string
		for _, o := range sections[name] {
			if !seen[name+"."+o.Key] {
				missing = append(missing, optionLines(o)...)
			}
		}
		if len(missing) == 0 {
			continue
		}
		if at, ok := sectionEnd[name]; ok {
			inserts[at] = append(inserts[at], missing...)
		} else {
			newTables = append(newTables, "["+name+"]")
			newTables = append(newTables, missing...)
		}
	}
	if len(inserts) == 0 && len(newTables) == 0 {
		return strings.Join(out, "\n"), changed
	}

	merged := make([]string, 0, len(out)+len(newTables)+8)
	for i := 0; i <= len(out); i++ {
		merged = append(merged, inserts[i]...)
		if i < len(out) {
			merged = append(merged, out[i])
		}
	}
	if len(newTables) > 0 {
		merged = append(merged, "", "# Added by config update")
		merged = append(merged, newTables...)
	}
	return strings.Join(merged, "\n"), true
}

func splitOptions(opts []ConfigOption) (top []ConfigOption, sections map[string][]ConfigOption, order []string) {
	sections = make(map[string][]ConfigOption)
	for _, o := range opts {
		name, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, exists := sections[name]; !exists {
			order = append(order, name)
		}
		sections[name] = append(sections[name], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

func optionLines(o ConfigOption) []string {
	var lines []string
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	return append(lines, o.Key+" = "+tomlValue(o.Default), "")
}

func tomlValue(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case []string:
		quoted := make([]string, len(x))
		for i, s := range x {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprint(x)
	}
}

func parseTOMLKey(line string) (string, bool) {
	key, _, ok := strings.Cut(line, "=")
	if !ok {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "[") || strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}
