package tui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in form and comment inputs.
const maxInputLen = 2000

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case "space":
		key = " "
	}
	if utf8.RuneCountInString(key) == 1 {
		if utf8.RuneCountInString(text) >= maxInputLen {
			return text
		}
		return text + key
	}
	return text
}

// editKey applies a key message to text. Unlike editRune it accepts pasted
// runs of runes, clamped to maxInputLen.
func editKey(text string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyRunes:
		return appendClamped(text, string(msg.Runes))
	case tea.KeySpace:
		return appendClamped(text, " ")
	}
	return editRune(text, msg.String())
}

func appendClamped(text, add string) string {
	room := maxInputLen - utf8.RuneCountInString(text)
	if room <= 0 {
		return text
	}
	if utf8.RuneCountInString(add) > room {
		add = string([]rune(add)[:room])
	}
	return text + add
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// formField is one labelled line of a form.
type formField struct {
	label       string
	value       string
	placeholder string
	masked      bool
}

// renderField draws a form line. The focused field shows a cursor.
func renderField(f formField, focused bool) string {
	cursor := " "
	label := metaStyle.Render(f.label)
	if focused {
		cursor = inputPromptStyle.Render(">")
		label = selectedStyle.Render(f.label)
	}

	value := f.value
	if f.masked {
		value = strings.Repeat("•", utf8.RuneCountInString(value))
	}
	switch {
	case value == "" && !focused:
		value = inputPlaceholderStyle.Render(f.placeholder)
	case focused:
		value = normalStyle.Render(value) + accentStyle.Render("█")
	default:
		value = normalStyle.Render(value)
	}
	return cursor + " " + label + ": " + value
}
