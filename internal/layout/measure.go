package layout

import (
	"strings"
	"unicode/utf8"
)

// Measurer reports the printed width of a string in mm
type Measurer interface {
	TextWidth(text string, fontSize float64, bold bool) float64
}

// ApproxMeasurer estimates Helvetica widths from a fixed average advance. It is used
// when no PDF surface is available, for example when laying out a document for preview.
type ApproxMeasurer struct {
	// Advance is the average glyph width as a fraction of the font size.
	Advance float64
}

// DefaultMeasurer approximates Helvetica at half an em per glyph
var DefaultMeasurer = ApproxMeasurer{Advance: 0.5}

// TextWidth implements Measurer
func (a ApproxMeasurer) TextWidth(text string, fontSize float64, bold bool) float64 {
	adv := a.Advance
	if adv <= 0 {
		adv = 0.5
	}
	if bold {
		adv *= 1.08
	}
	return float64(utf8.RuneCountInString(text)) * fontSize * PointToMM * adv
}

// Wrap splits text into lines no wider than width. Explicit newlines start a new
// line and words longer than width are broken between characters.
func Wrap(m Measurer, text string, fontSize, width float64, bold bool) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if m.TextWidth(candidate, fontSize, bold) <= width {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
			}
			current = word
			for m.TextWidth(current, fontSize, bold) > width {
				head, tail := breakWord(m, current, fontSize, width, bold)
				lines = append(lines, head)
				current = tail
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}

// breakWord cuts the longest prefix of word that fits, always keeping at least one rune
func breakWord(m Measurer, word string, fontSize, width float64, bold bool) (string, string) {
	runes := []rune(word)
	cut := 1
	for cut < len(runes) && m.TextWidth(string(runes[:cut+1]), fontSize, bold) <= width {
		cut++
	}
	return string(runes[:cut]), string(runes[cut:])
}

// LineHeight returns the baseline-to-baseline distance for a font size and leading factor
func LineHeight(fontSize, factor float64) float64 {
	return fontSize * PointToMM * factor
}

// Ascent approximates the distance from the top of a line box to its baseline
func Ascent(fontSize float64) float64 {
	return fontSize * PointToMM * 0.8
}
