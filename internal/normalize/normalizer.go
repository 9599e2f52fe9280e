// Package normalize cleans raw PDF text before field extraction.
package normalize

import (
	"regexp"
	"strings"
)

// Result is normalized text plus an optional detected reporting-year
// token. FinancialYear is "" when no year token was found.
type Result struct {
	Text          string `json:"text"`
	FinancialYear string `json:"financialYear,omitempty"`
}

var (
	// Characters outside the allow-list (alphanumerics, whitespace,
	// -.,() and the ₹ $ % symbols) are stripped.
	disallowedRe = regexp.MustCompile(`[^0-9A-Za-z \t\n\r\f\-.,()₹$%]+`)

	spaceRunRe     = regexp.MustCompile(`[ \t]+`)
	blankLineRunRe = regexp.MustCompile(`\n{3,}`)

	// "FY 2023", "Financial Year: 2023", "Year - 2023" and similar.
	yearRe = regexp.MustCompile(`(?i)(?:FY|Financial\s+Year|Year)[\s:\-]*([0-9]{4})`)
)

// Normalize cleans raw extracted text and detects the first reporting
// year token. It never fails: malformed or empty input yields an empty
// Result.
func Normalize(raw string) Result {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\f", "\n")
	text = disallowedRe.ReplaceAllString(text, " ")
	text = spaceRunRe.ReplaceAllString(text, " ")

	// Trim per-line so blank-line collapsing sees truly empty lines.
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLineRunRe.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	res := Result{Text: text}
	if m := yearRe.FindStringSubmatch(text); m != nil {
		res.FinancialYear = m[1]
	}
	return res
}
