package metrics

import (
	"sort"

	"github.com/chatlens/chatlens/internal/chatlog"
	"github.com/chatlens/chatlens/internal/words"
)

// topWordCount caps the word-frequency output for the word cloud.
const topWordCount = 60

// WordCount is one word with its occurrence count.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// WordFrequency is the word-cloud aggregate: the top words in
// descending count order plus corpus totals.
type WordFrequency struct {
	Words       []WordCount `json:"words"`
	TotalWords  int         `json:"total_words"`
	UniqueWords int         `json:"unique_words"`
}

// CountWords tokenizes every message (optionally restricted to one
// participant), filters through the active stopword set, and
// returns the top 60 words in descending count order. Ties rank by
// first appearance in the log. Media placeholder messages
// contribute nothing.
func CountWords(
	log chatlog.Log, participant string, stop *words.Stopwords,
) WordFrequency {
	counts := make(map[string]int)
	var order []string
	total := 0

	for _, m := range log {
		if participant != "" && m.Author != participant {
			continue
		}
		for _, w := range words.Tokenize(m.Text, stop) {
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
			total++
		}
	}

	freq := WordFrequency{
		Words:       []WordCount{},
		TotalWords:  total,
		UniqueWords: len(counts),
	}
	if len(order) == 0 {
		return freq
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topWordCount {
		order = order[:topWordCount]
	}
	for _, w := range order {
		freq.Words = append(freq.Words, WordCount{Word: w, Count: counts[w]})
	}
	return freq
}
