package article

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const codeStyle = "catppuccin-mocha"

const ansiReset = "\x1b[0m"

// highlightCode colours a code block for a 256-colour terminal. The language
// is guessed from the code; unknown code comes back unstyled.
func highlightCode(code string) []string {
	plain := strings.Split(code, "\n")

	lexer := lexers.Analyse(code)
	if lexer == nil {
		return plain
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(codeStyle)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return plain
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plain
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return plain
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != len(plain) {
		return plain
	}
	for i, line := range lines {
		if stripANSI(line) != plain[i] {
			return plain
		}
		if strings.Contains(line, "\x1b") {
			lines[i] = line + ansiReset
		}
	}
	return lines
}
