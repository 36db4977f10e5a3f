package flagger

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/lemon-sec/scavenger/internal/model"
)

// defaultKeywords is the fixed list of substrings the keyword flagger looks
// for: credentials, keys, protocols, and identifiers commonly found beside
// leaked secrets in screenshots.
var defaultKeywords = []string{
	"password",
	"passwd",
	"secret",
	"api key",
	"api_key",
	"apikey",
	"access token",
	"access_token",
	"private key",
	"ssh-rsa",
	"ssh-ed25519",
	"begin rsa private key",
	"aws_secret_access_key",
	"authorization: bearer",
	"session id",
	"session_id",
	"credit card",
	"ssn",
	"social security",
}

// KeywordFlagger performs a case-insensitive substring search over a fixed
// keyword list. Case-folding uses golang.org/x/text/cases for Unicode-
// correct comparison rather than a naive ASCII lowercase.
type KeywordFlagger struct {
	fold     cases.Caser
	keywords []string
	folded   []string
}

// NewKeywordFlagger returns a KeywordFlagger over the default keyword list.
func NewKeywordFlagger() *KeywordFlagger {
	return NewKeywordFlaggerWithKeywords(defaultKeywords)
}

// NewKeywordFlaggerWithKeywords returns a KeywordFlagger over a caller-
// supplied keyword list, folding each keyword once up front.
func NewKeywordFlaggerWithKeywords(keywords []string) *KeywordFlagger {
	fold := cases.Fold()
	folded := make([]string, len(keywords))
	for i, kw := range keywords {
		folded[i] = fold.String(kw)
	}
	return &KeywordFlagger{fold: fold, keywords: keywords, folded: folded}
}

// ModuleName implements Flagger.
func (f *KeywordFlagger) ModuleName() string {
	return "KEYWORD"
}

// Flag implements Flagger.
func (f *KeywordFlagger) Flag(_ string, _ model.Raster, text string) (string, bool) {
	foldedText := f.fold.String(text)
	for i, kw := range f.folded {
		if strings.Contains(foldedText, kw) {
			return fmt.Sprintf("Detected keyword: %q", f.keywords[i]), true
		}
	}
	return "", false
}

var _ Flagger = (*KeywordFlagger)(nil)
