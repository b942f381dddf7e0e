package source

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/san-kum/asciiplay/internal/anim"
)

var ErrSyntax = errors.New("source: js syntax error")

// parseJS reads "var name = [ [ 'row', ... ], ... ];". Only string literals
// nested two arrays deep are accepted; trailing commas are allowed.
func parseJS(data []byte) (anim.Source, error) {
	p := &jsParser{s: string(data)}

	p.skipSpace()
	for _, kw := range []string{"var", "let", "const"} {
		if p.consumeWord(kw) {
			break
		}
	}
	p.skipSpace()
	if !p.consumeIdent() {
		return nil, p.errorf("expected a variable name")
	}
	p.skipSpace()
	if !p.consume('=') {
		return nil, p.errorf("expected '='")
	}

	var src anim.Source
	err := p.array(func() error {
		var frame anim.Frame
		err := p.array(func() error {
			s, err := p.str()
			if err != nil {
				return err
			}
			frame = append(frame, anim.Row(s))
			return nil
		})
		if err != nil {
			return err
		}
		src = append(src, frame)
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	p.consume(';')
	p.skipSpace()
	if p.pos < len(p.s) {
		return nil, p.errorf("unexpected trailing input")
	}
	return src, nil
}

type jsParser struct {
	s   string
	pos int
}

func (p *jsParser) errorf(format string, args ...any) error {
	line := 1 + strings.Count(p.s[:p.pos], "\n")
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, line, fmt.Sprintf(format, args...))
}

func (p *jsParser) skipSpace() {
	for p.pos < len(p.s) {
		switch c := p.s[p.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case strings.HasPrefix(p.s[p.pos:], "//"):
			if i := strings.IndexByte(p.s[p.pos:], '\n'); i >= 0 {
				p.pos += i + 1
			} else {
				p.pos = len(p.s)
			}
		default:
			return
		}
	}
}

func (p *jsParser) consume(c byte) bool {
	if p.pos < len(p.s) && p.s[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *jsParser) consumeWord(w string) bool {
	if !strings.HasPrefix(p.s[p.pos:], w) {
		return false
	}
	end := p.pos + len(w)
	if end < len(p.s) && isIdent(p.s[end]) {
		return false
	}
	p.pos = end
	return true
}

func (p *jsParser) consumeIdent() bool {
	start := p.pos
	for p.pos < len(p.s) && isIdent(p.s[p.pos]) {
		p.pos++
	}
	return p.pos > start
}

func isIdent(c byte) bool {
	return c == '_' || c == '$' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// array parses "[ elem, elem, ]" calling elem for each element.
func (p *jsParser) array(elem func() error) error {
	p.skipSpace()
	if !p.consume('[') {
		return p.errorf("expected '['")
	}
	for {
		p.skipSpace()
		if p.consume(']') {
			return nil
		}
		if err := elem(); err != nil {
			return err
		}
		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			return nil
		}
		return p.errorf("expected ',' or ']'")
	}
}

func (p *jsParser) str() (string, error) {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return "", p.errorf("unexpected end of input")
	}
	quote := p.s[p.pos]
	if quote != '\'' && quote != '"' {
		return "", p.errorf("expected a string")
	}
	p.pos++

	var b strings.Builder
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\n':
			return "", p.errorf("unterminated string")
		case c == '\\':
			if p.pos+1 >= len(p.s) {
				return "", p.errorf("unterminated escape")
			}
			p.pos++
			if err := p.escape(&b); err != nil {
				return "", err
			}
		default:
			r, size := utf8.DecodeRuneInString(p.s[p.pos:])
			b.WriteRune(r)
			p.pos += size
		}
	}
	return "", p.errorf("unterminated string")
}

// escape decodes the escape sequence starting just after a backslash.
func (p *jsParser) escape(b *strings.Builder) error {
	e, size := utf8.DecodeRuneInString(p.s[p.pos:])
	p.pos += size
	switch e {
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case 'x':
		r, err := p.hex(2)
		if err != nil {
			return err
		}
		b.WriteRune(r)
	case 'u':
		r, err := p.unicodeEscape()
		if err != nil {
			return err
		}
		b.WriteRune(r)
	case '\r':
		p.consume('\n')
	case '\n':
	default:
		b.WriteRune(e)
	}
	return nil
}

// unicodeEscape reads the digits of \uHHHH or \u{H...}. A high surrogate
// followed by an escaped low surrogate is combined into one rune.
func (p *jsParser) unicodeEscape() (rune, error) {
	if p.consume('{') {
		end := strings.IndexByte(p.s[p.pos:], '}')
		if end <= 0 {
			return 0, p.errorf("invalid unicode escape")
		}
		v, err := strconv.ParseUint(p.s[p.pos:p.pos+end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, p.errorf("invalid unicode escape")
		}
		p.pos += end + 1
		return rune(v), nil
	}

	r, err := p.hex(4)
	if err != nil {
		return 0, err
	}
	if r >= 0xd800 && r < 0xdc00 && strings.HasPrefix(p.s[p.pos:], "\\u") {
		save := p.pos
		p.pos += 2
		lo, err := p.hex(4)
		if err == nil && lo >= 0xdc00 && lo < 0xe000 {
			return (r-0xd800)<<10 + (lo - 0xdc00) + 0x10000, nil
		}
		p.pos = save
	}
	return r, nil
}

func (p *jsParser) hex(n int) (rune, error) {
	if p.pos+n > len(p.s) {
		return 0, p.errorf("truncated escape")
	}
	v, err := strconv.ParseUint(p.s[p.pos:p.pos+n], 16, 32)
	if err != nil {
		return 0, p.errorf("invalid escape %q", p.s[p.pos:p.pos+n])
	}
	p.pos += n
	return rune(v), nil
}
