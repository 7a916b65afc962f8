package ai

import (
	"strings"
	"unicode/utf8"

	"github.com/NIKHIL-58/AI-ML/internal/model"
)

// SplitSentences splits text on '.', trims every fragment and drops empty ones.
func SplitSentences(text string) []string {
	parts := strings.Split(text, ".")
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sentences = append(sentences, part)
	}
	return sentences
}

// Chunk greedily packs sentences into passages whose summed sentence length stays
// within targetSize. The bound is soft: a sentence is never split, so one longer
// than targetSize becomes a passage of its own.
func Chunk(text string, targetSize int) []string {
	var (
		chunks  []string
		current []string
		length  int
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, ". ")+".")
		current = nil
		length = 0
	}
	for _, sentence := range SplitSentences(text) {
		n := utf8.RuneCountInString(sentence)
		if length+n > targetSize && len(current) > 0 {
			flush()
		}
		current = append(current, sentence)
		length += n
	}
	flush()
	return chunks
}

func ChunkDocument(text string, targetSize int) []model.Chunk {
	passages := Chunk(text, targetSize)
	chunks := make([]model.Chunk, 0, len(passages))
	for i, passage := range passages {
		chunks = append(chunks, model.Chunk{Index: i, Text: passage})
	}
	return chunks
}
