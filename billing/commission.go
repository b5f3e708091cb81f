package billing

import (
	"strings"
	"unicode"

	"gestion-peluqueria-backend/apperr"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CommissionRule is the percentage a professional earns on services of a category
type CommissionRule struct {
	Professional string `json:"profesional"`
	Category     string `json:"categoria"`
	Percentage   int    `json:"porcentaje"`
}

func (r CommissionRule) Validate() error {
	if strings.TrimSpace(r.Professional) == "" || strings.TrimSpace(r.Category) == "" {
		return apperr.Validationf("professional and category are required")
	}
	if r.Percentage < 0 || r.Percentage > 100 {
		return apperr.Validationf("percentage must be between 0 and 100")
	}
	return nil
}

// Key identifies the (professional, category) pair a rule applies to
func (r CommissionRule) Key() string {
	return ruleKey(r.Professional, r.Category)
}

// NormalizeKey folds case and strips accents so "Peluquería" and "peluqueria" compare equal.
func NormalizeKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return cases.Fold().String(out)
}

func ruleKey(professional, category string) string {
	return NormalizeKey(professional) + "\x00" + NormalizeKey(category)
}

// RuleSet indexes commission rules by (professional, category)
type RuleSet struct {
	rules map[string]CommissionRule
}

// NewRuleSet validates rules and rejects duplicate pairs
func NewRuleSet(rules []CommissionRule) (*RuleSet, error) {
	rs := &RuleSet{rules: make(map[string]CommissionRule, len(rules))}
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		key := r.Key()
		if _, dup := rs.rules[key]; dup {
			return nil, apperr.Conflictf("a rule for %s / %s already exists", r.Professional, r.Category)
		}
		rs.rules[key] = r
	}
	return rs, nil
}

// Lookup returns the rule for professional and category, or nil
func (rs *RuleSet) Lookup(professional, category string) *CommissionRule {
	if rs == nil {
		return nil
	}
	if r, ok := rs.rules[ruleKey(professional, category)]; ok {
		return &r
	}
	return nil
}

// ForLine returns the rule matching the line's professional and category, or nil
func (rs *RuleSet) ForLine(line ServiceLine) *CommissionRule {
	if line.Category == "" {
		return nil
	}
	return rs.Lookup(line.Professional, line.Category)
}

// CommissionFor is amount × percentage / 100 rounded half-up to whole pesos.
// A nil rule earns nothing.
func CommissionFor(line ServiceLine, rule *CommissionRule) int64 {
	if rule == nil || line.Amount <= 0 {
		return 0
	}
	return decimal.NewFromInt(line.Amount).
		Mul(decimal.NewFromInt(int64(rule.Percentage))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// StampCommissions fills Commission on every line using rs. Lines are modified in place.
func StampCommissions(lines []ServiceLine, rs *RuleSet) {
	for i := range lines {
		lines[i].Commission = CommissionFor(lines[i], rs.ForLine(lines[i]))
	}
}
