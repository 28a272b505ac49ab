package main

import (
	"strings"
	"unicode"
)

// textStats are the surface features the difficulty heuristic reads.
type textStats struct {
	words       int
	sentences   int
	totalRunes  int
	longWords   int
	vowelGroups int
}

var cyrillicVowels = map[rune]bool{
	'а': true, 'е': true, 'ё': true, 'и': true, 'о': true, 'у': true,
	'ы': true, 'э': true, 'ю': true, 'я': true,
	'і': true, 'ї': true, 'є': true,
}

// analyzeText tallies word, sentence and syllable-proxy counts over the
// passage. Vowel groups stand in for syllables, which is close enough
// for cyrillic text at this granularity.
func analyzeText(paragraphs []string) textStats {
	var stats textStats
	for _, paragraph := range paragraphs {
		for _, word := range strings.Fields(paragraph) {
			runes := 0
			groups := 0
			inVowel := false
			for _, r := range word {
				if unicode.IsPunct(r) {
					if r == '.' || r == '!' || r == '?' {
						stats.sentences++
					}
					continue
				}
				if !unicode.IsLetter(r) {
					continue
				}
				runes++
				vowel := cyrillicVowels[unicode.ToLower(r)]
				if vowel && !inVowel {
					groups++
				}
				inVowel = vowel
			}
			if runes == 0 {
				continue
			}
			stats.words++
			stats.totalRunes += runes
			stats.vowelGroups += groups
			if runes >= 7 {
				stats.longWords++
			}
		}
	}
	if stats.sentences == 0 {
		stats.sentences = len(paragraphs)
	}
	if stats.sentences == 0 {
		stats.sentences = 1
	}
	return stats
}

// difficulty maps the surface features onto the shared 0..100 scale: a
// weighted blend of word length, sentence length, long-word share and
// syllables per word, tuned so early-reader passages land around 10..25
// and dense prose climbs past 70.
func (s textStats) difficulty() float64 {
	if s.words == 0 {
		return 0
	}
	avgWordLen := float64(s.totalRunes) / float64(s.words)
	avgSentenceLen := float64(s.words) / float64(s.sentences)
	longShare := float64(s.longWords) / float64(s.words)
	syllablesPerWord := float64(s.vowelGroups) / float64(s.words)

	score := 9*(avgWordLen-3) +
		1.6*(avgSentenceLen-4) +
		45*longShare +
		10*(syllablesPerWord-1.5)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
