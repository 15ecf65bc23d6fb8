package lexer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/leapstack-labs/coffeelint/pkg/token"
)

// DecodeJSON reads a token stream written by an external CoffeeScript
// tokenizer. The input is a JSON array of tokens in CoffeeScript's tuple
// form:
//
//	[["IDENTIFIER", "x", 0], ["INDENT", 2, 1, {"generated": true}], ...]
//
// The optional fourth element carries the generated and newLine flags. The
// line may also be a location object with a first_line field. Tags that are
// not built in are registered as dynamic token types.
func DecodeJSON(r io.Reader) ([]token.Token, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode token stream: %w", err)
	}

	tokens := make([]token.Token, 0, len(raw))
	for i, msg := range raw {
		tok, err := decodeToken(msg)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

type tokenFlags struct {
	Generated bool `json:"generated,omitempty"`
	NewLine   bool `json:"newLine,omitempty"`
}

// EncodeJSON writes tokens in the tuple form read by DecodeJSON, one token
// per line. Flags are only written when set.
func EncodeJSON(w io.Writer, tokens []token.Token) error {
	var buf bytes.Buffer
	buf.WriteString("[\n")
	for i, tok := range tokens {
		tuple := []any{tok.Type.String(), tok.Value, tok.Line}
		if tok.Generated || tok.NewLine {
			tuple = append(tuple, tokenFlags{Generated: tok.Generated, NewLine: tok.NewLine})
		}
		b, err := json.Marshal(tuple)
		if err != nil {
			return fmt.Errorf("token %d: %w", i, err)
		}
		buf.WriteString("  ")
		buf.Write(b)
		if i < len(tokens)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("]\n")
	_, err := w.Write(buf.Bytes())
	return err
}

type location struct {
	FirstLine int `json:"first_line"`
}

func decodeToken(msg json.RawMessage) (token.Token, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil {
		return token.Token{}, fmt.Errorf("expected [tag, value, line]: %w", err)
	}
	if len(fields) < 3 {
		return token.Token{}, fmt.Errorf("expected at least 3 elements, got %d", len(fields))
	}

	var tag string
	if err := json.Unmarshal(fields[0], &tag); err != nil {
		return token.Token{}, fmt.Errorf("tag: %w", err)
	}
	typ, ok := token.Lookup(tag)
	if !ok {
		typ = token.Register(tag)
	}

	value, err := decodeValue(fields[1])
	if err != nil {
		return token.Token{}, fmt.Errorf("value: %w", err)
	}
	line, err := decodeLine(fields[2])
	if err != nil {
		return token.Token{}, fmt.Errorf("line: %w", err)
	}

	tok := token.Token{Type: typ, Value: value, Line: line}
	if len(fields) > 3 {
		var flags tokenFlags
		if err := json.Unmarshal(fields[3], &flags); err != nil {
			return token.Token{}, fmt.Errorf("flags: %w", err)
		}
		tok.Generated = flags.Generated
		tok.NewLine = flags.NewLine
	}
	return tok, nil
}

// decodeValue accepts strings and numbers (INDENT widths are numeric).
func decodeValue(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func decodeLine(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var loc location
	if err := json.Unmarshal(raw, &loc); err != nil {
		return 0, fmt.Errorf("expected a number or location object, got %s", strconv.Quote(string(raw)))
	}
	return loc.FirstLine, nil
}
