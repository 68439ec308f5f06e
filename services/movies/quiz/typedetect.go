// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package quiz

import (
	"regexp"
	"strings"
)

// =============================================================================
// Quiz Type Detection
// =============================================================================

var (
	// Cast keywords first: most specific wins when a request mixes terms.
	castTypePattern     = regexp.MustCompile(`\b(cast|actor|actors|star|stars|starring|who stars? in|who played|who acted|performed by)\b`)
	directorTypePattern = regexp.MustCompile(`\b(director|directed|who directed|helmed|who helmed|filmmaker)\b`)
	yearTypePattern     = regexp.MustCompile(`\b(year|years|released|when was|release date|what year|from what year)\b`)
)

// DetectType infers the requested quiz type from free text. Returns ""
// when no type keyword is present (the caller then prompts the user).
func DetectType(userInput string) string {
	text := strings.ToLower(strings.TrimSpace(userInput))
	switch {
	case castTypePattern.MatchString(text):
		return TypeCast
	case directorTypePattern.MatchString(text):
		return TypeDirector
	case yearTypePattern.MatchString(text):
		return TypeYear
	default:
		return ""
	}
}

// TypePrompt builds the message shown when a quiz is requested. With a
// known type it confirms continuation; otherwise it lists the choices.
func TypePrompt(quizType string) string {
	switch quizType {
	case TypeCast:
		return "Continuing with cast/actor questions."
	case TypeDirector:
		return "Continuing with director questions."
	case TypeYear:
		return "Continuing with year questions."
	}
	return "What type of quiz would you like to play?\n\n" +
		"- Year: questions about movie release years\n" +
		"- Director: questions about who directed movies\n" +
		"- Cast: questions about actors who starred in movies\n\n" +
		"Please specify: 'year', 'director', or 'cast'"
}

// AvailableTypesMessage lists quiz types the user can try, excluding the
// one that just failed for lack of data.
func AvailableTypesMessage(failedType string) string {
	var available []string
	if failedType != TypeYear {
		available = append(available, "- Year: questions about release years")
	}
	if failedType != TypeDirector {
		available = append(available, "- Director: questions about directors")
	}
	if failedType != TypeCast {
		available = append(available, "- Cast: questions about actors")
	}
	if len(available) == 0 {
		return "No quiz types are currently available."
	}
	return "Available quiz types:\n" + strings.Join(available, "\n")
}
