package schemas

import "strings"

// CloseTruncatedJSON дописывает незакрытые строку и скобки в конце документа.
// Модель обрывает ответ на лимите токенов, и хвост вида `..."rules": ["a", "b` ещё
// можно дочитать. Второе значение - был ли документ изменён.
func CloseTruncatedJSON(s string) (string, bool) {
	if s == "" {
		return s, false
	}

	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			// Лишняя закрывающая скобка: чинить нечего, пусть падает парсер.
			if len(stack) == 0 || stack[len(stack)-1] != ch {
				return s, false
			}
			stack = stack[:len(stack)-1]
		}
	}

	if !inString && len(stack) == 0 {
		return s, false
	}

	var b strings.Builder
	b.WriteString(s)
	if inString {
		if escaped {
			b.WriteByte('\\')
		}
		b.WriteByte('"')
	}
	// Висящая запятая перед закрытием не парсится.
	fixed := strings.TrimRight(b.String(), " \t\r\n")
	fixed = strings.TrimSuffix(fixed, ",")
	b.Reset()
	b.WriteString(fixed)
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String(), true
}
