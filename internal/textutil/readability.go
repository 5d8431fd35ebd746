package textutil

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoWords is returned when a text has no words to measure.
var ErrNoWords = errors.New("text contains no words")

var (
	sentenceEnd = regexp.MustCompile(`[.!?]+(\s|$)`)
	wordPattern = regexp.MustCompile(`[A-Za-z]+(?:['-][A-Za-z]+)*`)
)

// FleschReadingEase computes the Flesch Reading Ease index of text.
func FleschReadingEase(text string) (float64, error) {
	words := wordPattern.FindAllString(text, -1)
	if len(words) == 0 {
		return 0, ErrNoWords
	}
	sentences := len(sentenceEnd.FindAllStringIndex(strings.TrimSpace(text), -1))
	if sentences == 0 {
		sentences = 1
	}
	syllables := 0
	for _, w := range words {
		syllables += CountSyllables(w)
	}
	wps := float64(len(words)) / float64(sentences)
	spw := float64(syllables) / float64(len(words))
	return 206.835 - 1.015*wps - 84.6*spw, nil
}

// CountSyllables estimates the syllable count of an English word by counting
// vowel groups, discounting a silent trailing "e".
func CountSyllables(word string) int {
	w := strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range w {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(w, "e") && !strings.HasSuffix(w, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}
