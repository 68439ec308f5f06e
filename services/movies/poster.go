// Copyright (C) 2025 ReelMind AI (dev@reelmind.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package movies

import (
	"strings"

	"github.com/ReelMindAI/ReelMindFOSS/services/movies/dataset"
)

// =============================================================================
// Caption Analysis
// =============================================================================

// captionStopWords are filler terms a vision caption always contains and
// that carry no title signal.
var captionStopWords = map[string]bool{
	"movie": true, "poster": true, "image": true, "picture": true,
	"photo": true, "film": true, "the": true, "a": true, "an": true,
	"and": true, "or": true, "but": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true,
	"by": true, "is": true, "are": true, "was": true, "were": true,
}

// Caption keyword groups for mood inference, checked in order. Genre
// evidence from a matched catalog title always wins over these.
var moodKeywords = []struct {
	mood     string
	keywords []string
}{
	{"Thrilling", []string{
		"fight", "chase", "danger", "cityscape", "action", "explosion",
		"gun", "weapon", "battle", "war", "combat", "running", "crash",
		"fire", "smoke",
	}},
	{"Comedic", []string{
		"funny", "smile", "laugh", "comedy", "humor", "joke", "silly",
		"wacky", "goofy", "cartoon", "animated", "comic",
	}},
	{"Dark", []string{
		"blood", "horror", "scary", "frightening", "gloomy", "ominous",
		"sinister", "terror", "fear",
	}},
	{"Romantic", []string{
		"couple", "romance", "love", "kiss", "heart", "wedding",
		"romantic", "embrace", "holding hands",
	}},
	{"Dramatic", []string{
		"serious", "intense", "emotional", "dramatic", "tension",
		"confrontation", "struggle", "conflict",
	}},
}

// analyzeCaption turns a vision caption into a poster analysis: it
// matches caption keywords against catalog titles, then infers mood
// from the matched movie's genres, falling back to caption keywords.
func analyzeCaption(caption string, movies []dataset.Movie) *PosterResponse {
	keywords := captionKeywords(caption, 10)

	matched, score := bestTitleMatch(keywords, movies)

	response := &PosterResponse{
		Caption: caption,
		Mood:    "Neutral",
	}
	if matched != nil {
		response.Title = matched.Title
		for _, genre := range matched.Genres {
			response.InferredGenres = append(response.InferredGenres, strings.ToLower(genre))
		}
		response.Mood = moodFromGenres(matched.Genres)
		response.Confidence = confidenceForMatch(score)
	} else {
		response.Confidence = 0.3
	}

	if response.Mood == "Neutral" {
		response.Mood = moodFromCaption(caption)
	}
	return response
}

// captionKeywords extracts up to max unique significant words.
func captionKeywords(text string, max int) []string {
	var keywords []string
	seen := map[string]bool{}
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?\"'")
		if len(word) <= 3 || captionStopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) == max {
			break
		}
	}
	return keywords
}

// bestTitleMatch scores every catalog title by the number of caption
// keywords appearing as complete words in it. Ties keep the earlier
// catalog entry. A zero score means no match.
func bestTitleMatch(keywords []string, movies []dataset.Movie) (*dataset.Movie, int) {
	var (
		best      *dataset.Movie
		bestScore int
	)
	for i := range movies {
		titleWords := map[string]bool{}
		for _, word := range strings.Fields(strings.ToLower(movies[i].Title)) {
			titleWords[strings.Trim(word, ".,:!?")] = true
		}

		score := 0
		for _, keyword := range keywords {
			if titleWords[keyword] {
				score++
			}
		}
		if score > bestScore {
			best = &movies[i]
			bestScore = score
		}
	}
	return best, bestScore
}

// moodFromGenres maps the first recognizable genre to a mood. Comedy
// outranks everything else so comedy-drama reads Comedic.
func moodFromGenres(genres []string) string {
	for _, genre := range genres {
		genre = strings.ToLower(genre)
		switch {
		case strings.Contains(genre, "comedy"):
			return "Comedic"
		case strings.Contains(genre, "horror"),
			strings.Contains(genre, "thriller"),
			strings.Contains(genre, "mystery"):
			return "Dark"
		case strings.Contains(genre, "action"),
			strings.Contains(genre, "adventure"):
			return "Thrilling"
		case strings.Contains(genre, "romance"),
			strings.Contains(genre, "romantic"):
			return "Romantic"
		case strings.Contains(genre, "drama"):
			return "Dramatic"
		case strings.Contains(genre, "sci-fi"),
			strings.Contains(genre, "fantasy"):
			return "Thrilling"
		}
	}
	return "Neutral"
}

// moodFromCaption is the keyword fallback when no genre evidence exists.
func moodFromCaption(caption string) string {
	lower := strings.ToLower(caption)
	for _, group := range moodKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				return group.mood
			}
		}
	}
	return "Neutral"
}

// confidenceForMatch grades a title match by keyword overlap.
func confidenceForMatch(score int) float64 {
	switch {
	case score >= 2:
		return 0.9
	case score == 1:
		return 0.7
	default:
		return 0.3
	}
}
