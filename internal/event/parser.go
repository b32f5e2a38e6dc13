package event

import (
	"strings"
	"unicode"
)

// Parse confidence levels reflect the parse path: structured lines are
// trusted most, keyword heuristics less, the catch-all least.
const (
	confidenceStructured  = 0.8
	confidenceObject      = 0.7
	confidenceMotion      = 0.6
	confidenceInteraction = 0.6
	confidenceCatchAll    = 0.5
)

// catchAllThreshold is the minimum trimmed response length that still
// produces a catch-all event when nothing else matched. Shorter responses
// are considered noise and dropped.
const catchAllThreshold = 50

// catchAllExcerptLen is how much of the raw response survives into the
// catch-all event description.
const catchAllExcerptLen = 100

// Keyword vocabularies for the natural-language fallback. Each check is
// independent: a response may fire all three and yield three events.
var (
	objectWords      = []string{"object", "item", "thing", "element", "entity"}
	motionWords      = []string{"moving", "motion", "action", "activity", "movement"}
	interactionWords = []string{"interaction", "interacting", "together", "between"}
)

// Parse converts one frame's raw model response into structured events.
// It never fails: malformed input degrades to heuristic events or none.
//
// The response format the model is prompted for is pipe-delimited
// "TYPE|DESCRIPTION|SEVERITY|OBJECTS" lines, with the literal "NONE"
// signalling nothing notable. Real model output routinely deviates, so
// three fallbacks apply in order: keyword heuristics over the whole text,
// then a catch-all event for substantial unmatched responses.
func Parse(response string, timestamp float64, frameIndex int) []Event {
	if strings.TrimSpace(response) == "" {
		return nil
	}
	// "NONE" anywhere is the model's nothing-notable signal and takes
	// precedence over any other content in the same response.
	if strings.Contains(strings.ToUpper(response), "NONE") {
		return nil
	}

	events := parseStructured(response, timestamp, frameIndex)
	if len(events) == 0 {
		events = parseNaturalLanguage(response, timestamp, frameIndex)
	}
	return events
}

// parseStructured extracts events from pipe-delimited lines. Lines with
// fewer than 3 fields are ignored, not treated as errors.
func parseStructured(response string, timestamp float64, frameIndex int) []Event {
	var events []Event
	for _, line := range strings.Split(response, "\n") {
		if !strings.Contains(line, "|") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 3 {
			continue
		}

		label := strings.TrimSpace(parts[0])
		description := strings.TrimSpace(parts[1])
		// Lower-cased but deliberately not validated against the known
		// severity values; unknown severities pass through verbatim.
		severity := strings.ToLower(strings.TrimSpace(parts[2]))

		var objects []string
		if len(parts) > 3 {
			for _, obj := range strings.Split(parts[3], ",") {
				if trimmed := strings.TrimSpace(obj); trimmed != "" {
					objects = append(objects, trimmed)
				}
			}
		}

		events = append(events, Event{
			Timestamp:   timestamp,
			Category:    ClassifyLabel(label),
			Subtype:     DeriveSubtype(description),
			Description: description,
			Severity:    severity,
			Confidence:  confidenceStructured,
			Objects:     objects,
			FrameIndex:  frameIndex,
		})
	}
	return events
}

// parseNaturalLanguage extracts synthetic events from a free-form response
// via independent keyword checks, falling back to a single catch-all event
// so substantial model output is never silently dropped.
func parseNaturalLanguage(response string, timestamp float64, frameIndex int) []Event {
	var events []Event
	words := tokenize(response)

	if containsAnyWord(words, objectWords) {
		events = append(events, Event{
			Timestamp:   timestamp,
			Category:    CategoryObject,
			Subtype:     "object_detected",
			Description: "Object or entity detected in the scene",
			Severity:    SeverityMedium,
			Confidence:  confidenceObject,
			Objects:     []string{"object"},
			FrameIndex:  frameIndex,
		})
	}

	if containsAnyWord(words, motionWords) {
		events = append(events, Event{
			Timestamp:   timestamp,
			Category:    CategoryAction,
			Subtype:     "movement_detected",
			Description: "Movement or action detected in the scene",
			Severity:    SeverityLow,
			Confidence:  confidenceMotion,
			Objects:     []string{"entity"},
			FrameIndex:  frameIndex,
		})
	}

	if containsAnyWord(words, interactionWords) {
		events = append(events, Event{
			Timestamp:   timestamp,
			Category:    CategoryInteraction,
			Subtype:     "interaction_detected",
			Description: "Interaction between entities detected",
			Severity:    SeverityMedium,
			Confidence:  confidenceInteraction,
			Objects:     []string{"entity"},
			FrameIndex:  frameIndex,
		})
	}

	if len(events) == 0 && len(strings.TrimSpace(response)) > catchAllThreshold {
		events = append(events, Event{
			Timestamp:   timestamp,
			Category:    CategoryObject,
			Subtype:     "scene_analysis",
			Description: truncate(response, catchAllExcerptLen),
			Severity:    SeverityLow,
			Confidence:  confidenceCatchAll,
			Objects:     []string{"scene"},
			FrameIndex:  frameIndex,
		})
	}

	return events
}

// tokenize lower-cases the text and splits it into word tokens. The
// heuristics match whole words, not substrings: "nothing" must not trigger
// the "thing" vocabulary.
func tokenize(s string) map[string]bool {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := make(map[string]bool, len(fields))
	for _, f := range fields {
		words[f] = true
	}
	return words
}

func containsAnyWord(words map[string]bool, vocabulary []string) bool {
	for _, w := range vocabulary {
		if words[w] {
			return true
		}
	}
	return false
}

// truncate cuts s to n characters plus an ellipsis. It operates on runes so
// multibyte model output is never cut mid-character.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
