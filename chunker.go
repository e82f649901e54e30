package helpdex

import (
	"regexp"
	"strings"
)

// Default chunking parameters, in estimated tokens.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// ChunkOptions configures ChunkArticle.
type ChunkOptions struct {
	// TargetSize is the per-chunk token budget, including the title prefix.
	TargetSize int

	// Overlap is the token budget for the sentence suffix carried from one
	// chunk into the next.
	Overlap int
}

// sentenceBoundary matches sentence-like unit boundaries: sentence-ending
// punctuation followed by whitespace, or a blank line.
var sentenceBoundary = regexp.MustCompile(`[.!?]\s+|\n{2,}`)

// ChunkArticle splits an article's normalized text into an ordered sequence
// of overlapping passages targeting the configured token budget. Each
// passage is prefixed with "# {title}\n\n" and the title's token cost is
// reserved from the per-chunk budget. Empty text yields exactly one chunk
// containing only the title prefix.
//
// The returned chunks carry ChunkIndex, Text, and TokenCount; identity
// fields are left for the caller to fill in.
func ChunkArticle(title, text string, opts ChunkOptions) []Chunk {
	targetSize := opts.TargetSize
	if targetSize <= 0 {
		targetSize = DefaultChunkSize
	}
	overlap := opts.Overlap
	if overlap < 0 {
		overlap = 0
	}

	prefix := "# " + title + "\n\n"
	effectiveBudget := targetSize - EstimateTokens(prefix)
	if effectiveBudget < 1 {
		effectiveBudget = 1
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return []Chunk{{
			ChunkIndex: 0,
			Text:       prefix,
			TokenCount: EstimateTokens(prefix),
		}}
	}

	var chunks []Chunk
	emit := func(sentences []string) {
		body := strings.TrimRight(strings.Join(sentences, ""), " \t\n")
		chunkText := prefix + body
		chunks = append(chunks, Chunk{
			ChunkIndex: len(chunks),
			Text:       chunkText,
			TokenCount: EstimateTokens(chunkText),
		})
	}

	var current []string
	currentTokens := 0

	for _, sentence := range splitSentences(text) {
		tokens := EstimateTokens(sentence)

		// A sentence that can never fit is split at word boundaries into
		// standalone sub-chunks. Any accumulated sentences are flushed
		// first so the split parts start an empty chunk.
		if tokens > effectiveBudget {
			if len(current) > 0 {
				emit(current)
				current, currentTokens = nil, 0
			}
			for _, part := range splitByWords(sentence, effectiveBudget) {
				emit([]string{part})
			}
			continue
		}

		if currentTokens+tokens > effectiveBudget && len(current) > 0 {
			emit(current)
			current, currentTokens = overlapSuffix(current, overlap)
		}

		current = append(current, sentence)
		currentTokens += tokens
	}

	if len(current) > 0 {
		emit(current)
	}

	return chunks
}

// splitSentences splits text into sentence-like units, retaining the
// boundary delimiter with the unit that precedes it.
func splitSentences(text string) []string {
	var units []string
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		units = append(units, text[start:loc[1]])
		start = loc[1]
	}
	if start < len(text) {
		units = append(units, text[start:])
	}
	return units
}

// overlapSuffix walks backward from the end of the just-closed chunk's
// sentences and returns the longest suffix whose cumulative token estimate
// stays within the overlap budget.
func overlapSuffix(sentences []string, overlap int) ([]string, int) {
	if overlap <= 0 {
		return nil, 0
	}
	total := 0
	i := len(sentences)
	for i > 0 {
		tokens := EstimateTokens(sentences[i-1])
		if total+tokens > overlap {
			break
		}
		total += tokens
		i--
	}
	if i == len(sentences) {
		return nil, 0
	}
	suffix := make([]string, len(sentences)-i)
	copy(suffix, sentences[i:])
	return suffix, total
}

// splitByWords splits an oversized sentence at word boundaries into parts
// that each fit within the token budget.
func splitByWords(sentence string, budget int) []string {
	words := strings.Fields(sentence)
	var parts []string
	var current strings.Builder

	for _, word := range words {
		candidate := current.Len() + len(word) + 1
		if current.Len() > 0 && (candidate+3)/4 > budget {
			parts = append(parts, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
