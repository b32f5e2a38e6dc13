package event

import "strings"

// categoryRule maps a keyword vocabulary to a category. Rules are evaluated
// in order and the first match wins, so the slice order is the tie-break.
type categoryRule struct {
	category Category
	keywords []string
}

// categoryRules is the prioritized rule list for classifying a type label.
// Kept as data rather than code so the matching order is inspectable and
// testable independently of any specific model's phrasing.
var categoryRules = []categoryRule{
	{CategoryAction, []string{"action", "movement", "motion", "activity", "performing", "doing"}},
	{CategoryInteraction, []string{"interaction", "together", "between", "interacting", "connection"}},
	{CategorySceneChange, []string{"camera", "pan", "zoom", "transition", "scene", "location", "setting"}},
	{CategoryActivity, []string{"activity", "process", "ongoing", "happening", "event"}},
	{CategoryObject, []string{"object", "item", "thing", "element", "entity", "presence"}},
}

// subtypeRules refines an event from its description, independently of the
// label classification. Same first-match-wins evaluation.
var subtypeRules = []struct {
	subtype  string
	keywords []string
}{
	{"movement", []string{"moving", "motion", "action"}},
	{"object_detected", []string{"object", "item", "thing"}},
	{"interaction", []string{"interaction", "together"}},
	{"scene_change", []string{"camera", "scene", "transition"}},
	{"activity", []string{"activity", "process"}},
}

// ClassifyLabel maps a free-text event-type label onto a category.
// Labels that match no vocabulary classify as unknown.
func ClassifyLabel(label string) Category {
	lower := strings.ToLower(label)
	for _, rule := range categoryRules {
		if containsAny(lower, rule.keywords) {
			return rule.category
		}
	}
	return CategoryUnknown
}

// DeriveSubtype extracts a subtype from an event description. Descriptions
// that match no vocabulary get the "general" subtype.
func DeriveSubtype(description string) string {
	lower := strings.ToLower(description)
	for _, rule := range subtypeRules {
		if containsAny(lower, rule.keywords) {
			return rule.subtype
		}
	}
	return "general"
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
