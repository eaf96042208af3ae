package domain

import (
	"strings"
	"unicode"
)

// Scope selects how storage is shared between declarations.
type Scope string

const (
	// ScopeGroup keys one record per group identity. Groups never share storage.
	ScopeGroup Scope = "group"
	// ScopeVariable keys each variable by its name alone. Windows that declare
	// the same name and type share one cell.
	ScopeVariable Scope = "var"
)

// Key is the stable registry key of a storage cell.
type Key struct {
	Scope Scope
	Name  string
}

// GroupKey returns the key of a group record.
func GroupKey(id string) Key {
	return Key{Scope: ScopeGroup, Name: id}
}

// VarKey returns the key of a standalone variable.
func VarKey(name string) Key {
	return Key{Scope: ScopeVariable, Name: name}
}

func (k Key) String() string {
	return string(k.Scope) + ":" + k.Name
}

// ValidIdentifier reports whether s is usable as a group or variable name:
// a letter or underscore followed by letters, digits or underscores.
func ValidIdentifier(s string) bool {
	if s == "" || s == "_" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// SnakeCase converts a Go field name to the label shown next to its control:
// "BarWidth" -> "bar_width", "HPMax" -> "hp_max".
func SnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' {
				prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || (nextLower && unicode.IsUpper(runes[i-1])) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CamelCase converts a snake_case identifier to an exported Go name:
// "health_bar" -> "HealthBar".
func CamelCase(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
