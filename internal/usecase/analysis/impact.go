package analysis

import "strings"

// ImpactScore is the estimated impact of a text on one demographic group.
type ImpactScore struct {
	Score int    `json:"score"`
	Level string `json:"level"`
}

// demographicKeywords maps the ten tracked demographic categories to the
// keywords counted for each.
var demographicKeywords = map[string][]string{
	"students":       {"student", "school", "education", "tuition", "college"},
	"seniors":        {"senior", "elderly", "retirement", "medicare", "social security"},
	"veterans":       {"veteran", "military", "armed forces", "service member"},
	"families":       {"family", "child care", "parental", "household"},
	"workers":        {"worker", "labor", "wage", "employment", "union"},
	"small_business": {"small business", "entrepreneur", "startup", "self-employed"},
	"farmers":        {"farm", "agriculture", "rural", "crop", "livestock"},
	"patients":       {"patient", "healthcare", "hospital", "prescription", "insurance"},
	"homeowners":     {"homeowner", "mortgage", "housing", "property tax", "rent"},
	"immigrants":     {"immigrant", "immigration", "visa", "citizenship", "refugee"},
}

// AnalyzeImpact scores a text against every demographic category. Each raw
// score is 10 points per keyword occurrence, clamped to 100.
func AnalyzeImpact(text string) map[string]ImpactScore {
	lower := strings.ToLower(text)
	out := make(map[string]ImpactScore, len(demographicKeywords))
	for category, keywords := range demographicKeywords {
		hits := 0
		for _, kw := range keywords {
			hits += strings.Count(lower, kw)
		}
		score := hits * 10
		if score > 100 {
			score = 100
		}
		out[category] = ImpactScore{Score: score, Level: impactLevel(score)}
	}
	return out
}

func impactLevel(score int) string {
	switch {
	case score > 50:
		return "High"
	case score > 20:
		return "Medium"
	default:
		return "Low"
	}
}
