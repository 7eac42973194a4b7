package services

import (
	"strings"
	"unicode"
)

// Chunker splits regulatory text into overlapping chunks for ingestion,
// preferring sentence boundaries.
type Chunker struct {
	ChunkSize    int
	ChunkOverlap int
}

func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	return &Chunker{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	}
}

func (c *Chunker) ChunkText(text string) []string {
	text = cleanText(text)
	if len(text) == 0 {
		return []string{}
	}
	if len(text) <= c.ChunkSize {
		return []string{text}
	}

	chunks := []string{}
	start := 0
	for start < len(text) {
		end := start + c.ChunkSize
		if end > len(text) {
			end = len(text)
		}

		if end < len(text) {
			sentenceEnd := findSentenceBoundary(text, start, end)
			// only accept a boundary far enough ahead to make progress after
			// the overlap is subtracted
			if sentenceEnd > start+c.ChunkOverlap {
				end = sentenceEnd
			}
		}

		chunk := strings.TrimSpace(text[start:end])
		if len(chunk) > 0 {
			chunks = append(chunks, chunk)
		}

		oldStart := start
		start = end - c.ChunkOverlap
		if start <= oldStart {
			start = oldStart + 1
		}
		if start >= len(text) {
			break
		}
	}

	return chunks
}

// cleanText removes excessive whitespace and normalizes text
func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			line = strings.Join(strings.Fields(line), " ")
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, " ")
}

// findSentenceBoundary scans backwards for a sentence ender, then a space,
// and falls back to the original end.
func findSentenceBoundary(text string, start, end int) int {
	if end <= start {
		return end
	}

	for i := end - 1; i > start; i-- {
		switch text[i] {
		case '.', '!', '?':
			if i+1 >= len(text) || unicode.IsSpace(rune(text[i+1])) {
				return i + 1
			}
		}
	}

	for i := end - 1; i > start; i-- {
		if unicode.IsSpace(rune(text[i])) {
			return i + 1
		}
	}

	return end
}
