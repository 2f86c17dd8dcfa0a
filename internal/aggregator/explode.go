package aggregator

import (
	"regexp"
	"strings"

	"github.com/samber/lo"

	"campaign-insights-go/internal/types"
)

// Neutral is the emotional-intent bucket for records with no usable value.
const Neutral = "neutral"

const maxKeywordTokens = 5

var (
	multiValueSep = regexp.MustCompile(`[;,]\s*`)
	keywordToken  = regexp.MustCompile(`[A-Za-z0-9']+`)
)

// Explode returns the partition values a record contributes to field.
// Single-valued fields yield exactly one value.
func Explode(r types.Record, field types.Field) []string {
	if !field.IsMultiValue() {
		return []string{r.Category(field)}
	}

	raw := strings.TrimSpace(r.Text(field))
	if field == types.FieldEmotionalIntent {
		switch strings.ToLower(raw) {
		case "nan", "none":
			raw = ""
		}
	}

	parts := SplitMulti(raw)
	if field == types.FieldEmotionalIntent {
		parts = lo.Map(parts, func(p string, _ int) string { return strings.ToLower(p) })
	}
	parts = lo.Uniq(parts)
	if len(parts) > 0 {
		return parts
	}

	switch field {
	case types.FieldPhraseComponents:
		return KeywordTokens(r.Text(types.FieldKeyword))
	case types.FieldEmotionalIntent:
		return []string{Neutral}
	}
	return nil
}

// SplitMulti splits on ';' or ',' and drops empty parts.
func SplitMulti(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range multiValueSep.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// KeywordTokens lower-cases a keyword, keeps the first five alphanumeric
// tokens longer than one character and drops repeats.
func KeywordTokens(keyword string) []string {
	var out []string
	for _, tok := range keywordToken.FindAllString(strings.ToLower(keyword), -1) {
		if len(tok) <= 1 {
			continue
		}
		out = append(out, tok)
		if len(out) == maxKeywordTokens {
			break
		}
	}
	return lo.Uniq(out)
}
