package report

import (
	"sort"
	"strings"
	"unicode"
)

// AvailableColumns returns the unique column keys observed across rows.
// The set is computed by observation rather than declared per report type,
// so shapes that vary their emitted keys stay honest. The order is sorted —
// any stable deterministic order works since consumers render via label
// lookup, not position.
func AvailableColumns(rows []Row) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for key := range row {
			seen[key] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for key := range seen {
		cols = append(cols, key)
	}
	sort.Strings(cols)
	return cols
}

// DefaultColumns returns the report definition's default column list filtered
// to keys present in available, preserving the definition order. When the
// intersection is empty (or the type is unknown) it falls back to all of
// available, so the caller is never left without columns while rows exist.
func DefaultColumns(t Type, available []string) []string {
	defaults := filterColumns(definitions[t].DefaultColumns, available)
	if len(defaults) == 0 {
		return append([]string(nil), available...)
	}
	return defaults
}

// ResolveColumns produces the final export column list: the caller's
// selection filtered to available keys, falling back to the report defaults
// when the filtered selection is empty. The result is always a subset of
// available.
func ResolveColumns(t Type, selected, available []string) []string {
	cols := filterColumns(selected, available)
	if len(cols) == 0 {
		return DefaultColumns(t, available)
	}
	return cols
}

// filterColumns keeps the entries of cols that appear in available,
// preserving the order of cols.
func filterColumns(cols, available []string) []string {
	allowed := make(map[string]struct{}, len(available))
	for _, c := range available {
		allowed[c] = struct{}{}
	}
	var out []string
	for _, c := range cols {
		if _, ok := allowed[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// ToTitleCase converts a snake_case or camelCase column key to a spaced
// title: "customer_code" → "Customer Code", "completionRate" →
// "Completion Rate". Words split on underscores and lower-to-upper letter
// boundaries; whitespace collapses; each word's first letter is capitalized.
func ToTitleCase(key string) string {
	var b strings.Builder
	runes := []rune(key)
	for i, r := range runes {
		if r == '_' {
			b.WriteRune(' ')
			continue
		}
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		wr := []rune(w)
		wr[0] = unicode.ToUpper(wr[0])
		words[i] = string(wr)
	}
	return strings.Join(words, " ")
}
