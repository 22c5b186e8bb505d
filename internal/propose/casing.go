package propose

import "github.com/bastiangx/sqlassist/internal/dialect"

// ApplyCasing implements §4.5's identifier-casing step: a token the
// dialect recognizes as a KEYWORD gets the dialect's keyword-case
// transform plus, unless the caller asks for as-typed, the user's
// insert-case override; anything else (an identifier) gets the
// dialect's unquoted-storage case. Shared between propose's
// object-backed proposals and postfilter's keyword-assist proposals so
// casing stays a single final step regardless of proposal source.
func ApplyCasing(token string, d dialect.Dialect, insertCase dialect.CaseTransform) string {
	if kt, ok := d.GetKeywordType(token); ok && kt == dialect.KeywordTypeKeyword {
		token = d.KeywordCase().Transform(token)
		if insertCase != dialect.CaseAsTyped {
			token = insertCase.Transform(token)
		}
		return token
	}
	return d.StoresUnquotedCase().Transform(token)
}
