package fixedwidth

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Lines decodes a bank file into its non-empty lines. Files that are not
// valid UTF-8 are read as ISO-8859-1, which is what Bankgirot and Nets
// deliver.
func Lines(data []byte) ([]string, error) {
	text, err := Decode(data)
	if err != nil {
		return nil, err
	}
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// Decode returns data as a string, converting from ISO-8859-1 when needed.
func Decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("could not decode latin-1 input: %w", err)
	}
	return string(out), nil
}

// Encode converts text to ISO-8859-1. Runes outside the charset are an error.
func Encode(text string) ([]byte, error) {
	out, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("could not encode latin-1 output: %w", err)
	}
	return out, nil
}
