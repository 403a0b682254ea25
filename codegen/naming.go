// Package codegen implements the abstract, back-end-agnostic codegen
// framework described in spec §4.4: a visitor-driven State that
// walks a schema and file in a fixed order, collecting imports, exports,
// and code blocks that a concrete Codegen implementation renders. Ported
// from the original compiler's codegen/codegen.rs and codegen_helper.rs.
package codegen

import "unicode"

// Decompose splits name into lowercase alphanumeric parts, breaking on
// case changes, hyphens, and underscores — the shared tokenizer behind
// CamelCase and SnakeCase (ported from codegen_utils::decompose).
func Decompose(name string) []string {
	var parts []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			parts = append(parts, string(cur))
			cur = nil
		}
	}

	for _, r := range name {
		if unicode.IsUpper(r) || r == '-' || r == '_' {
			flush()
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur = append(cur, unicode.ToLower(r))
		}
	}
	flush()

	return parts
}

// CamelCase renders name as UpperCamelCase, e.g. "user-org" -> "UserOrg".
func CamelCase(name string) string {
	var out []rune
	for _, part := range Decompose(name) {
		if part == "" {
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		out = append(out, r...)
	}
	return string(out)
}

// SnakeCase renders name as snake_case, e.g. "UserOrg" -> "user_org".
func SnakeCase(name string) string {
	parts := Decompose(name)
	out := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		if out != "" {
			out += "_"
		}
		out += part
	}
	return out
}
