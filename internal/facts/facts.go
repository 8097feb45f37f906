// Package facts normalizes raw language-model completion output into a
// clean, bounded, ordered list of trivia facts. It tolerates the
// formatting variance real models produce (numbered lists, bullets,
// bare lines, prose) and the shape variance of provider payloads
// (content-block lists, text/completion mappings, plain strings).
package facts

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoFacts is returned when both extraction strategies produce zero
// usable facts. Callers must treat this as a failure, never as a
// successful empty result.
var ErrNoFacts = errors.New("no facts produced")

// Options bounds the extraction. MaxFacts caps the result length;
// non-positive values default to 12. MinFacts, when positive, arms the
// sentence fallback: a line pass that produced fewer facts without
// stripping a single enumeration marker is taken as evidence the model
// answered in prose. SentenceLimit, when positive and below MaxFacts,
// caps how many sentences the fallback collects.
type Options struct {
	MaxFacts      int
	MinFacts      int
	SentenceLimit int
}

func (o Options) withDefaults() Options {
	if o.MaxFacts <= 0 {
		o.MaxFacts = 12
	}
	if o.MinFacts < 0 {
		o.MinFacts = 0
	}
	return o
}

// markerPattern matches one leading enumeration marker: digits followed
// by "." or ")", or a single bullet glyph from the fixed set
// {-, en dash, bullet, *}. The set is deliberately closed; lines using
// other glyphs keep them.
var markerPattern = regexp.MustCompile(`^(?:[0-9]+[.)]\s*|[-–•*]\s*)`)

// Extract resolves a raw completion payload to text and extracts facts
// from it.
func Extract(payload any, opts Options) ([]string, error) {
	return FromText(ResolveText(payload), opts)
}

// ResolveText flattens a completion payload of unknown shape into a
// single string. Shapes are tried in fixed priority order: a
// content-block sequence (the payload itself, or nested under a
// "content" key) yields the first block's text; a mapping with a
// top-level "text" or "completion" string yields that string; anything
// else degrades to its string representation. It never panics on
// unexpected shapes.
func ResolveText(payload any) string {
	switch v := payload.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		if text, ok := firstBlockText(v); ok {
			return text
		}
	case map[string]any:
		if blocks, ok := v["content"].([]any); ok {
			if text, ok := firstBlockText(blocks); ok {
				return text
			}
		}
		if text, ok := v["text"].(string); ok {
			return text
		}
		if text, ok := v["completion"].(string); ok {
			return text
		}
	}
	return fmt.Sprintf("%v", payload)
}

// firstBlockText extracts the text of the first content block. A block
// may be a mapping with a "text" field or a bare string.
func firstBlockText(blocks []any) (string, bool) {
	if len(blocks) == 0 {
		return "", false
	}
	switch b := blocks[0].(type) {
	case map[string]any:
		if text, ok := b["text"].(string); ok {
			return text, true
		}
	case string:
		return b, true
	}
	return "", false
}

// FromText extracts facts from resolved completion text. The primary
// strategy is line-oriented: split on newlines, strip one leading
// enumeration marker per line, trim, drop empties. When that yields
// nothing, or yields fewer than MinFacts facts without any marker
// stripped, the text is re-segmented into sentences instead. The
// result is truncated to MaxFacts in original order; zero facts after
// both strategies is ErrNoFacts.
func FromText(text string, opts Options) ([]string, error) {
	opts = opts.withDefaults()

	facts, stripped := cleanLines(splitLines(text))

	needFallback := len(facts) == 0 ||
		(opts.MinFacts > 0 && len(facts) < opts.MinFacts && !stripped)
	if needFallback {
		limit := opts.MaxFacts
		if opts.SentenceLimit > 0 && opts.SentenceLimit < limit {
			limit = opts.SentenceLimit
		}
		if fromSentences, _ := cleanLines(splitSentences(text)); len(fromSentences) > 0 {
			facts = fromSentences
			if len(facts) > limit {
				facts = facts[:limit]
			}
		}
	}

	if len(facts) > opts.MaxFacts {
		facts = facts[:opts.MaxFacts]
	}
	if len(facts) == 0 {
		return nil, ErrNoFacts
	}
	return facts, nil
}

// cleanLines applies the marker-strip/trim/drop rule to each candidate
// and reports whether any enumeration marker was actually stripped.
func cleanLines(candidates []string) ([]string, bool) {
	var out []string
	stripped := false
	for _, line := range candidates {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cleaned := markerPattern.ReplaceAllString(line, "")
		if cleaned != line {
			stripped = true
		}
		cleaned = strings.TrimSpace(cleaned)
		if cleaned == "" {
			continue
		}
		out = append(out, cleaned)
	}
	return out, stripped
}

// splitLines splits on bare \n and tolerates \r\n endings.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// splitSentences segments prose on terminal punctuation (".", "?", "!")
// followed by whitespace or end of text. The terminator stays with its
// sentence; a trailing unterminated fragment is kept as a final
// candidate and dropped later if it cleans to nothing.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '?' && c != '!' {
			continue
		}
		if i+1 < len(text) && !isSpace(text[i+1]) {
			continue
		}
		sentences = append(sentences, text[start:i+1])
		start = i + 1
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
