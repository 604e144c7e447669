package strings

import (
	"strings"
	"unicode"
)

// Tokenize splits a configuration key into lowercase word tokens.
// Pieces are separated by '_' or '-', non-alphanumeric characters are
// stripped from each piece and empty pieces are dropped:
//
//	"db-host_name" -> ["db", "host", "name"]
//	"__v2.api__"   -> ["v2api"]
func Tokenize(key string) []string {
	pieces := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-'
	})

	tokens := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		var b strings.Builder
		for _, r := range piece {
			if isASCIIAlnum(r) {
				b.WriteRune(unicode.ToLower(r))
			}
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
		}
	}
	return tokens
}

// PascalCase joins tokens with no separator, capitalizing the first letter of
// each token. Tokens that start with a digit are left unchanged.
func PascalCase(tokens []string) string {
	var b strings.Builder
	for _, tok := range tokens {
		runes := []rune(tok)
		if len(runes) == 0 {
			continue
		}
		if unicode.IsLetter(runes[0]) {
			runes[0] = unicode.ToUpper(runes[0])
		}
		b.WriteString(string(runes))
	}
	return b.String()
}

// StartsWithDigit reports whether s begins with an ASCII digit
func StartsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
