// Package extract pulls balance-sheet line items out of normalized text
// using labeled pattern rules.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/finsight-cli/internal/model"
)

// MatchPolicy selects how a rule resolves multiple label occurrences in
// one document.
type MatchPolicy string

// FirstMatch takes the first occurrence in document order. Documents
// with repeated labels (consolidated vs. standalone columns) may
// under-extract under this policy.
const FirstMatch MatchPolicy = "first_match"

// Rule is one compiled extraction rule for a canonical field.
type Rule struct {
	Field  string
	Labels []string
	re     *regexp.Regexp
}

// Extractor applies an ordered rule set to normalized text.
type Extractor struct {
	rules  []Rule
	policy MatchPolicy
}

// New creates an Extractor with the built-in rule table and the
// first-match policy.
func New() *Extractor {
	return &Extractor{rules: compileRules(defaultLabels), policy: FirstMatch}
}

// NewWithOverrides creates an Extractor whose label sets are replaced
// per field by the given overrides. Unknown field names are rejected so
// a typo in a rules file fails loudly instead of silently dropping a
// field.
func NewWithOverrides(overrides map[string][]string) (*Extractor, error) {
	labels := make(map[string][]string, len(defaultLabels))
	for field, l := range defaultLabels {
		labels[field] = l
	}
	for field, l := range overrides {
		if _, ok := labels[field]; !ok {
			return nil, eris.Errorf("extract: unknown field %q in rule overrides", field)
		}
		if len(l) == 0 {
			return nil, eris.Errorf("extract: field %q has no labels", field)
		}
		labels[field] = l
	}
	return &Extractor{rules: compileRules(labels), policy: FirstMatch}, nil
}

// Rules returns the compiled rules in extraction order.
func (e *Extractor) Rules() []Rule { return e.rules }

// Extract applies every rule to the text. Fields with no label match
// default to 0; Extract itself never fails.
func (e *Extractor) Extract(text string) model.FinancialData {
	var data model.FinancialData
	for _, rule := range e.rules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, err := parseAmount(m[1])
		if err != nil {
			continue
		}
		data.Set(rule.Field, value)
	}
	return data
}

// compileRules builds one case-insensitive regex per field. A rule
// matches any of the field's labels, an optional separator, an optional
// currency symbol, then a numeric literal with thousands separators and
// an optional decimal part.
func compileRules(labels map[string][]string) []Rule {
	rules := make([]Rule, 0, len(fieldOrder))
	for _, field := range fieldOrder {
		alts := make([]string, len(labels[field]))
		for i, label := range labels[field] {
			alts[i] = strings.ReplaceAll(regexp.QuoteMeta(label), ` `, `\s+`)
		}
		pattern := `(?i)\b(?:` + strings.Join(alts, "|") + `)\b` +
			`[\s:\-]*(?:₹|\$|rs\.?)?\s*` +
			`(\(?-?[0-9][0-9,]*(?:\.[0-9]+)?\)?)`
		rules = append(rules, Rule{
			Field:  field,
			Labels: labels[field],
			re:     regexp.MustCompile(pattern),
		})
	}
	return rules
}

// parseAmount strips thousands separators and parses a numeric literal.
// Parenthesized amounts are treated as negative, the usual statement
// convention.
func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "extract: parse amount %q", s)
	}
	if negative {
		v = -v
	}
	return v, nil
}
