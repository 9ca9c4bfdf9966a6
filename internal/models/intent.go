package models

// IntentCategory is the closed set of actionable intent categories.
type IntentCategory string

const (
	IntentStockAnalysis IntentCategory = "StockAnalysis"
	IntentEsgOverview   IntentCategory = "EsgOverview"
	IntentEsgHighlight  IntentCategory = "EsgHighlight"
	IntentUnknown       IntentCategory = "Unknown"
)

// ParseIntentCategory maps a classifier response string onto the closed
// category set. Anything unrecognized degrades to Unknown.
func ParseIntentCategory(s string) IntentCategory {
	switch IntentCategory(s) {
	case IntentStockAnalysis, IntentEsgOverview, IntentEsgHighlight:
		return IntentCategory(s)
	default:
		return IntentUnknown
	}
}

// Intent is the classified purpose of one final transcript.
type Intent struct {
	Category   IntentCategory    `json:"category"`
	Parameters map[string]string `json:"parameters"`
}

// Param returns a named parameter, or "" if absent.
func (i Intent) Param(key string) string {
	if i.Parameters == nil {
		return ""
	}
	return i.Parameters[key]
}
