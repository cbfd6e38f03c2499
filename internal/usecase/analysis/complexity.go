package analysis

import (
	"strings"
	"unicode"
)

// ComplexityReport describes the reading difficulty of a text.
type ComplexityReport struct {
	GradeLevel    float64 `json:"grade_level"`
	ReadingEase   float64 `json:"reading_ease"`
	Level         string  `json:"level"`
	WordCount     int     `json:"word_count"`
	SentenceCount int     `json:"sentence_count"`
}

// AnalyzeComplexity computes Flesch-Kincaid grade level and Flesch reading
// ease for a text. Same input always yields the same report.
func AnalyzeComplexity(text string) ComplexityReport {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ComplexityReport{Level: "Elementary"}
	}

	sentences := countSentences(text)
	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(len(words))

	grade := 0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59
	ease := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	if grade < 0 {
		grade = 0
	}

	return ComplexityReport{
		GradeLevel:    grade,
		ReadingEase:   ease,
		Level:         readingLevel(grade),
		WordCount:     len(words),
		SentenceCount: sentences,
	}
}

func readingLevel(grade float64) string {
	switch {
	case grade <= 6:
		return "Elementary"
	case grade <= 9:
		return "Middle School"
	case grade <= 12:
		return "High School"
	case grade <= 16:
		return "College"
	default:
		return "Graduate"
	}
}

func countSentences(text string) int {
	count := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
		}
	}
	if count == 0 {
		count = 1
	}
	return count
}

// countSyllables approximates syllables as vowel groups, discounting a
// trailing silent 'e'. Every word has at least one.
func countSyllables(word string) int {
	word = strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r)
	}))
	if word == "" {
		return 1
	}

	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}
