package lexer

import (
	"strings"

	"github.com/leapstack-labs/coffeelint/pkg/token"
)

// startOfInput skips leading blank and comment lines. At top level the
// indentation of the first code line becomes the base level; an
// interpolated expression that starts with whitespace opens an INDENT.
func (l *lexer) startOfInput() error {
	size, eof, err := l.scanToCode()
	if err != nil || eof {
		return err
	}
	if !l.nested || size == 0 {
		l.indent = size
		return nil
	}
	l.emit(token.INDENT, width(size))
	l.indents = append(l.indents, size)
	l.ends = append(l.ends, token.OUTDENT)
	l.indent = size
	return nil
}

// scanToCode advances over blank and comment-only lines, starting at the
// beginning of a line. It stops at the first code character and returns the
// indentation width of its line. eof reports that no code is left.
func (l *lexer) scanToCode() (size int, eof bool, err error) {
	for {
		size = 0
		for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
			size++
			l.pos++
		}
		if l.pos >= len(l.src) {
			return size, true, nil
		}

		rest := l.src[l.pos:]
		switch {
		case rest[0] == '\n':
			l.pos++
			l.line++
			continue
		case strings.HasPrefix(rest, "###") && !strings.HasPrefix(rest, "####"):
			if err := l.blockComment(); err != nil {
				return 0, false, err
			}
			for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
				l.pos++
			}
			if l.pos >= len(l.src) {
				return size, true, nil
			}
			if l.src[l.pos] != '\n' {
				return size, false, nil
			}
			l.pos++
			l.line++
			continue
		case rest[0] == '#':
			l.lineComment()
			if l.pos >= len(l.src) {
				return size, true, nil
			}
			l.pos++
			l.line++
			continue
		}
		return size, false, nil
	}
}

// lineToken handles a line break and the indentation of the next code line.
func (l *lexer) lineToken() error {
	if n := len(l.tokens); n > 0 {
		l.tokens[n-1].NewLine = true
	}
	l.pos++
	l.line++

	size, eof, err := l.scanToCode()
	if err != nil || eof {
		return err
	}

	noNewlines := l.unfinished()
	l.continued = false

	if size-l.indebt == l.indent {
		if !noNewlines {
			l.newlineToken()
		}
		return nil
	}

	if size > l.indent {
		if noNewlines {
			l.indebt = size - l.indent
			return nil
		}
		diff := size - l.indent + l.outdebt
		l.emit(token.INDENT, width(diff))
		l.indents = append(l.indents, diff)
		l.ends = append(l.ends, token.OUTDENT)
		l.outdebt, l.indebt = 0, 0
	} else {
		l.indebt = 0
		if err := l.outdentToken(l.indent-size, noNewlines); err != nil {
			return err
		}
	}
	l.indent = size
	return nil
}

// unfinished reports whether the expression continues on the next line.
func (l *lexer) unfinished() bool {
	if l.continued {
		return true
	}

	rest := l.src[l.pos:]
	if strings.HasPrefix(rest, ",") || strings.HasPrefix(rest, "::") {
		return true
	}
	if dot := strings.TrimPrefix(rest, "?"); strings.HasPrefix(dot, ".") {
		// a leading dot continues a chain unless it starts a range or number
		if len(dot) < 2 || (dot[1] != '.' && !isDigit(dot[1])) {
			return true
		}
	}

	t, ok := l.last()
	if !ok {
		return false
	}
	switch t.Type {
	case token.DOT, token.UNARY, token.MATH, token.PLUS, token.MINUS,
		token.INSTANCEOF, token.COMPARE, token.LOGIC, token.THROW, token.EXTENDS:
		return true
	}
	return false
}

func (l *lexer) newlineToken() {
	if l.lastIs(token.TERMINATOR) || len(l.tokens) == 0 {
		return
	}
	l.emit(token.TERMINATOR, "\n")
}

// outdentToken closes moveOut columns of indentation.
func (l *lexer) outdentToken(moveOut int, noNewlines bool) error {
	dented := false
	for moveOut > 0 {
		n := len(l.indents)
		if n == 0 {
			break
		}
		last := l.indents[n-1]
		switch {
		case last == l.outdebt:
			moveOut -= l.outdebt
			l.outdebt = 0
		case last < l.outdebt:
			l.outdebt -= last
			moveOut -= last
		default:
			dent := last - l.outdebt
			l.indents = l.indents[:n-1]
			moveOut -= dent
			l.outdebt = 0
			dented = true
			if err := l.pair(token.OUTDENT); err != nil {
				return err
			}
			l.emit(token.OUTDENT, width(dent))
		}
	}
	// a dedent that stops between two levels is owed to the next INDENT
	if dented && moveOut < 0 {
		l.outdebt -= moveOut
	}
	if !noNewlines {
		l.newlineToken()
	}
	return nil
}

// closeIndentation closes every open level at end of input. The closing
// tokens go on the line of the last token so trailing comments stay empty.
func (l *lexer) closeIndentation() error {
	if t, ok := l.last(); ok {
		l.line = t.Line
	}

	moveOut := 0
	for _, d := range l.indents {
		moveOut += d
	}
	if err := l.outdentToken(moveOut, false); err != nil {
		return err
	}
	if n := len(l.ends); n > 0 {
		return l.errorf("missing %s", l.ends[n-1])
	}
	return nil
}
