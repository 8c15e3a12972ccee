package warehouse

import "strings"

// splitStatements cuts a SQL script into individual statements on semicolons,
// respecting single-quoted strings, line comments, and dollar-quoted bodies
// so plpgsql function definitions survive intact.
func splitStatements(script string) []string {
	var (
		out       []string
		b         strings.Builder
		inSingle  bool
		inComment bool
		dollarTag string
	)

	for i := 0; i < len(script); i++ {
		ch := script[i]

		if inComment {
			if ch == '\n' {
				inComment = false
				b.WriteByte(ch)
			}
			continue
		}

		switch {
		case dollarTag != "":
			b.WriteByte(ch)
			if ch == '$' && strings.HasSuffix(b.String(), dollarTag) {
				dollarTag = ""
			}
			continue
		case inSingle:
			b.WriteByte(ch)
			if ch == '\'' {
				inSingle = false
			}
			continue
		}

		switch ch {
		case '-':
			if i+1 < len(script) && script[i+1] == '-' {
				inComment = true
				i++
				continue
			}
			b.WriteByte(ch)
		case '\'':
			inSingle = true
			b.WriteByte(ch)
		case '$':
			if tag, ok := dollarQuoteAt(script, i); ok {
				dollarTag = tag
				b.WriteString(tag)
				i += len(tag) - 1
				continue
			}
			b.WriteByte(ch)
		case ';':
			if stmt := strings.TrimSpace(b.String()); stmt != "" {
				out = append(out, stmt)
			}
			b.Reset()
		default:
			b.WriteByte(ch)
		}
	}

	if stmt := strings.TrimSpace(b.String()); stmt != "" {
		out = append(out, stmt)
	}
	return out
}

// dollarQuoteAt reports the dollar-quote tag starting at i ("$$", "$body$").
func dollarQuoteAt(s string, i int) (string, bool) {
	j := i + 1
	for j < len(s) {
		c := s[j]
		if c == '$' {
			return s[i : j+1], true
		}
		if !isTagChar(c) {
			return "", false
		}
		j++
	}
	return "", false
}

func isTagChar(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
