// Package ingest turns text and JSON input into integer sequences for the
// sorter. All rejections wrap radix.ErrInvalidArgument.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"digitsort/internal/radix"
)

// maxLineBytes bounds a single batch line.
const maxLineBytes = 64 << 20

// ParseText reads integers separated by whitespace and/or commas.
func ParseText(r io.Reader) ([]int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return parseFields(string(data))
}

// ParseArgs parses command-line style values, each of which may itself hold
// several comma separated integers.
func ParseArgs(args []string) ([]int, error) {
	return parseFields(strings.Join(args, " "))
}

// ParseJSON reads a JSON array of non-negative integers.
func ParseJSON(r io.Reader) ([]int, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON: %v", radix.ErrInvalidArgument, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON array", radix.ErrInvalidArgument)
	}
	return FromJSONValue(raw)
}

// FromJSONValue converts a decoded JSON value (decoded with UseNumber) into
// an integer sequence.
func FromJSONValue(raw any) ([]int, error) {
	arr, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON array, got %s", radix.ErrInvalidArgument, jsonKind(raw))
	}
	out := make([]int, 0, len(arr))
	for i, el := range arr {
		num, ok := el.(json.Number)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %s, not an integer", radix.ErrInvalidArgument, i, jsonKind(el))
		}
		v, err := parseInt(num.String(), i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Line is one parsed batch line. Err is set when the line did not parse;
// Values is then nil.
type Line struct {
	Number int
	Values []int
	Err    error
}

// ErrLimitExceeded is wrapped, together with radix.ErrInvalidArgument, by
// every size limit rejection.
var ErrLimitExceeded = errors.New("limit exceeded")

// ParseLines reads one sequence per non-blank line. Lines beginning with '#'
// are skipped. A line that fails to parse is returned with Err set and does
// not stop the scan; only read failures are returned as an error.
func ParseLines(r io.Reader) ([]Line, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	var out []Line
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		values, err := parseFields(string(line))
		if err != nil {
			out = append(out, Line{Number: lineNo, Err: fmt.Errorf("line %d: %w", lineNo, err)})
			continue
		}
		out = append(out, Line{Number: lineNo, Values: values})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return out, nil
}

// CheckLimit rejects sequences longer than max. max <= 0 disables the check.
func CheckLimit(values []int, max int) error {
	return checkCount(len(values), max, "values")
}

// CheckBatchLimit rejects batches of more than max sequences.
func CheckBatchLimit(n, max int) error {
	return checkCount(n, max, "sequences")
}

func checkCount(n, max int, what string) error {
	if max > 0 && n > max {
		return fmt.Errorf("%w: %w: %d %s exceeds limit of %d", radix.ErrInvalidArgument, ErrLimitExceeded, n, what, max)
	}
	return nil
}

func parseFields(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]int, 0, len(fields))
	for i, f := range fields {
		v, err := parseInt(f, i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseInt(tok string, pos int) (int, error) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: value %d (%q) is not an integer", radix.ErrInvalidArgument, pos, tok)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: value %d (%d) is negative", radix.ErrInvalidArgument, pos, v)
	}
	return v, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case []any:
		return "an array"
	case map[string]any:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
