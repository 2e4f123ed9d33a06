package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is the chunk ceiling used when delivering to Discord.
// Discord rejects messages over 2000 characters; the margin leaves room for markdown.
const MaxMessageLength = 1900

// SplitMessage splits content into chunks of at most limit runes.
// Lines are packed greedily and only broken when a single line exceeds limit.
// Chunks holding only whitespace are dropped since Discord rejects empty messages.
func SplitMessage(content string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageLength
	}
	if content == "" {
		return nil
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0
	started := false

	emit := func(chunk string) {
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, line := range strings.Split(content, "\n") {
		lineLen := utf8.RuneCountInString(line)

		need := lineLen
		if started {
			need++
		}
		if currentLen+need <= limit {
			if started {
				current.WriteByte('\n')
			}
			current.WriteString(line)
			currentLen += need
			started = true
			continue
		}

		if started {
			emit(current.String())
			current.Reset()
			currentLen = 0
			started = false
		}

		runes := []rune(line)
		for len(runes) > limit {
			emit(string(runes[:limit]))
			runes = runes[limit:]
		}
		if len(runes) > 0 || lineLen == 0 {
			current.WriteString(string(runes))
			currentLen = len(runes)
			started = true
		}
	}
	if started {
		emit(current.String())
	}

	return chunks
}
