package telegram

import "strings"

// messageLimit — максимальная длина текста сообщения Bot API в символах.
const messageLimit = 4096

// splitText режет текст на части не длиннее limit рун. Разрез делается по
// последнему переводу строки внутри окна, а если его нет — ровно по limit.
func splitText(text string, limit int) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		if nl := lastNewline(runes[:limit]); nl > 0 {
			cut = nl
		}
		if chunk := strings.TrimRight(string(runes[:cut]), "\n"); chunk != "" {
			parts = append(parts, chunk)
		}
		runes = trimLeadingNewlines(runes[cut:])
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

func lastNewline(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '\n' {
			return i
		}
	}
	return -1
}

func trimLeadingNewlines(runes []rune) []rune {
	for len(runes) > 0 && runes[0] == '\n' {
		runes = runes[1:]
	}
	return runes
}
