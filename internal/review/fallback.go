package review

import (
	"fmt"
	"math/rand"
	"strings"
)

// Template sets per length hint. Each template takes a content type
// ("film" or "series") and an optional notes clause.
var (
	shortTemplates = []string{
		"A compelling %[1]s that delivers strong performances and engaging storytelling. The narrative flows smoothly with well-executed technical elements. %[2]s",
		"This %[1]s showcases impressive craftsmanship with memorable moments throughout. Character development and visual execution stand out as particular strengths. %[2]s",
		"With its thoughtful approach to storytelling and solid technical execution, this %[1]s offers a satisfying experience. %[2]s",
	}

	mediumTemplates = []string{
		"This %[1]s demonstrates exceptional craftsmanship in both storytelling and technical execution. The narrative unfolds with precision, keeping viewers engaged from start to finish. %[2]s Character development is particularly noteworthy, with performances that bring depth and authenticity to the story.",
		"A masterful blend of compelling narrative and artistic expression, this %[1]s stands as a significant achievement. %[2]s The pacing is expertly handled, allowing both dramatic moments and character interactions to shine.",
		"With its sophisticated approach to storytelling and remarkable attention to detail, this %[1]s delivers an experience that is both intellectually stimulating and emotionally satisfying. %[2]s The ensemble cast delivers uniformly excellent performances.",
	}

	longTemplates = []string{
		"This film represents a remarkable achievement in contemporary cinema, showcasing a level of craftsmanship that elevates it above typical genre offerings. The narrative structure is meticulously constructed, with each scene serving a distinct purpose in advancing both plot and character development. Director's vision is consistently evident throughout, from the carefully composed visual language to the nuanced handling of complex emotional themes. Performances across the board are exceptional, with each actor bringing depth and authenticity to their roles. Technical elements including cinematography, sound design, and editing work in perfect harmony to create an immersive viewing experience. %[2]s The film successfully balances entertainment value with artistic ambition, resulting in a work that both engages in the moment and resonates long after viewing.",
		"From its opening moments, this production establishes itself as a work of considerable artistic merit and technical proficiency. The storytelling approach demonstrates a confident understanding of narrative rhythm, knowing precisely when to accelerate tension and when to allow character moments to breathe. Visual composition throughout is striking yet purposeful, with each frame contributing meaningfully to the overall thematic tapestry. Character arcs are developed with remarkable subtlety and psychological insight, avoiding cliché while maintaining emotional accessibility. %[2]s The film's exploration of its central ideas is both intellectually rigorous and emotionally resonant, inviting multiple interpretations while maintaining narrative coherence.",
	}
)

// Keyword sets used to bias template choice toward the rating tier
var (
	highRatingWords = []string{"exceptional", "masterful", "remarkable"}
	midRatingWords  = []string{"solid", "enjoyable", "satisfying"}
	lowRatingWords  = []string{"ambition", "uneven", "flaws"}
)

// FallbackReview produces template-based review prose. It is used whenever
// the provider is unconfigured, errors, times out, or returns nothing.
func FallbackReview(req Request) string {
	req = req.normalized()

	templates := mediumTemplates
	switch req.Length {
	case LengthShort:
		templates = shortTemplates
	case LengthLong:
		templates = longTemplates
	}

	if req.Rating != nil {
		words := lowRatingWords
		switch {
		case *req.Rating >= 8.0:
			words = highRatingWords
		case *req.Rating >= 6.0:
			words = midRatingWords
		}
		if filtered := filterByKeywords(templates, words); len(filtered) > 0 {
			templates = filtered
		}
	}

	notesClause := ""
	if strings.TrimSpace(req.Notes) != "" {
		notesClause = fmt.Sprintf("The film particularly excels in %s,", strings.ToLower(req.Notes))
	}

	contentType := "film"
	lowerTitle := strings.ToLower(req.Title)
	if strings.Contains(lowerTitle, "season") || strings.Contains(lowerTitle, "episode") {
		contentType = "series"
	}

	template := mediumTemplates[0]
	if len(templates) > 0 {
		template = templates[rand.Intn(len(templates))]
	}

	return strings.TrimSpace(fmt.Sprintf(template, contentType, notesClause))
}

// filterByKeywords keeps templates containing at least one keyword
func filterByKeywords(templates, keywords []string) []string {
	var filtered []string
	for _, t := range templates {
		lower := strings.ToLower(t)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				filtered = append(filtered, t)
				break
			}
		}
	}
	return filtered
}
