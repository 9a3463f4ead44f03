package review

import (
	"fmt"
	"math"
	"strings"
)

// Length-specific writing instructions
var lengthInstructions = map[string]string{
	LengthShort:  "Write a VERY SHORT and concise film review (2-3 sentences maximum). Focus only on the most important aspects. Be direct and to the point. Avoid lengthy analysis.",
	LengthMedium: "Write a standard length film review (4-6 sentences). Provide balanced analysis of key elements while maintaining readability.",
	LengthLong:   "Write a detailed, comprehensive film review. Explore various aspects in depth including narrative structure, character development, and technical execution.",
}

// Sentiment tiers keyed by rating; the tier closest to the request rating wins
var ratingSentiments = map[float64]string{
	9.0: "an outstanding masterpiece that exceeds expectations",
	8.0: "an excellent film with remarkable qualities",
	7.0: "a very good movie with strong elements",
	6.0: "a decent film with some notable aspects",
	5.0: "a mediocre film with mixed qualities",
	4.0: "a below-average film with significant flaws",
	3.0: "a poor film with major issues",
	2.0: "a very disappointing film",
	1.0: "an exceptionally bad film",
}

// closestSentiment finds the sentiment tier nearest to the rating
func closestSentiment(rating float64) string {
	best := ""
	bestDist := math.MaxFloat64
	for tier, sentiment := range ratingSentiments {
		if d := math.Abs(tier - rating); d < bestDist {
			bestDist = d
			best = sentiment
		}
	}
	return best
}

// buildPrompt assembles the completion prompt for a review request
func buildPrompt(req Request) string {
	parts := []string{
		lengthInstructions[req.Length],
		fmt.Sprintf("Review the film: '%s'.", req.Title),
	}

	if req.Rating != nil {
		parts = append(parts, fmt.Sprintf("The review should reflect that this is %s (rated %g/10).", closestSentiment(*req.Rating), *req.Rating))
	}

	if strings.TrimSpace(req.Notes) != "" {
		parts = append(parts,
			fmt.Sprintf("Focus your analysis on these aspects: %s", req.Notes),
			"Integrate these points naturally into your review without using phrases like 'Additional notes' or 'Viewer observations'.",
		)
	}

	switch req.Length {
	case LengthShort:
		parts = append(parts,
			"Structure for short review:",
			"- First sentence: Overall impression and rating context",
			"- Second sentence: Key strength or standout element",
			"- Third sentence: Final recommendation or summary thought",
			"Be extremely concise - every word must count!",
		)
	case LengthLong:
		parts = append(parts,
			"The review should provide comprehensive analysis of:",
			"- Plot structure and narrative flow",
			"- Character development and performances",
			"- Directing style and technical execution",
			"- Thematic elements and emotional impact",
			"- Overall audience appeal and lasting impression",
		)
	default:
		parts = append(parts,
			"The review should analyze:",
			"- Overall impression and rating context",
			"- Key strengths and standout elements",
			"- Any notable weaknesses (if applicable)",
			"- Final recommendation and summary",
		)
	}

	parts = append(parts,
		"Write in a professional critic's voice.",
		"Avoid spoilers and focus on the overall viewing experience.",
		"Ensure the review flows naturally and engages the reader.",
		"DO NOT use phrases like 'Additional notes:', 'Viewer observations:', or similar appendages.",
	)

	return strings.Join(parts, "\n")
}

// cleanText normalizes provider output: trims trailing sentence fragments,
// strips rating lines and prompt-echo prefixes, and capitalizes the opening.
func cleanText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	// Drop an unfinished trailing sentence
	last := strings.LastIndexAny(text, ".!?")
	if last != len(text)-1 && last != -1 {
		text = text[:last+1]
	}

	// Strip any generated rating/score lines
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "rating:") || strings.Contains(lower, "score:") ||
			strings.Contains(lower, "/10") || strings.Contains(lower, "/5") {
			continue
		}
		kept = append(kept, line)
	}
	text = strings.TrimSpace(strings.Join(kept, "\n"))

	for _, prefix := range []string{"The review:", "Review:"} {
		if len(text) >= len(prefix) && strings.EqualFold(text[:len(prefix)], prefix) {
			text = strings.TrimSpace(text[len(prefix):])
		}
	}

	for _, appendage := range []string{"Additional notes:", "Viewer observations:"} {
		if idx := strings.Index(text, appendage); idx != -1 {
			text = strings.TrimSpace(text[:idx])
		}
	}

	if text != "" {
		text = strings.ToUpper(text[:1]) + text[1:]
	}

	return text
}
