// Package psse implements the Polygon Symbolic Encoding codec: a lossy,
// total mapping between text and hyphen-delimited polygon side counts.
//
// Encoding collapses many characters onto one side count (A, I, Q and Y all
// encode to 3), so decoding picks a fixed representative of each class rather
// than inverting the original input. Callers must treat the codec as lossy:
// round-trips preserve character count and coarse class, never exact text.
//
// Every operation is a pure function over immutable tables and never fails.
// Unknown characters encode to the sentinel side count 11; malformed or
// unmapped parts decode to '?'.
package psse

import (
	"strconv"
	"strings"
)

// Sentinel is the side count assigned to any character outside the supported
// alphabet. It decodes back to '?'.
const Sentinel = 11

// encodeTable maps each supported character to its polygon side count.
// Letters are case-insensitive by class: A/I/Q/Y→3 through H/P/X→10.
// Digit d maps to d+1, space to 0, and the six punctuation marks to 11-16.
var encodeTable = buildEncodeTable()

func buildEncodeTable() map[rune]int {
	t := make(map[rune]int, 70)
	for i := rune(0); i < 26; i++ {
		sides := 3 + int(i%8)
		t['A'+i] = sides
		t['a'+i] = sides
	}
	for d := '0'; d <= '9'; d++ {
		t[d] = int(d-'0') + 1
	}
	t[' '] = 0
	for i, p := range ".,!?:;" {
		t[p] = Sentinel + i
	}
	return t
}

// decodeTable maps a side count to its ordered candidate characters. Decode
// always emits the first candidate, so list order is part of the wire
// contract: 0→' ', 1→'0', 2→'1', 3→'A' ... 10→'H', 11→'?'. Side counts
// 12-16 (produced by encoding ',', '!', '?', ':' and ';') have no entry and
// therefore decode to '?'.
var decodeTable = map[int]string{
	0:  " ",
	1:  "0",
	2:  "1",
	3:  "AIQYaiqy2 ",
	4:  "BJRZbjrz1 ",
	5:  "CKScks4.",
	6:  "DLTdlt5,",
	7:  "EMUemu6!",
	8:  "FNVfnv7?",
	9:  "GOWgow8:",
	10: "HPXhpx9;",
	11: "?",
}

// Encoder converts text into PSSE form.
type Encoder struct{}

// Encode renders each character's side count in decimal, joined with '-'.
// Unknown characters become the sentinel. Total: any input yields output.
func (Encoder) Encode(text string) string {
	if text == "" {
		return ""
	}
	parts := make([]string, 0, len(text))
	for _, r := range text {
		sides, ok := encodeTable[r]
		if !ok {
			sides = Sentinel
		}
		parts = append(parts, strconv.Itoa(sides))
	}
	return strings.Join(parts, "-")
}

// Decoder converts PSSE form back into a best-guess text.
type Decoder struct{}

// Decode splits on '-' and emits the first candidate character for each side
// count. Parts that do not parse as an integer, or parse to an unmapped
// value, become '?'. Total: malformed input degrades, it never errors.
func (Decoder) Decode(encoded string) string {
	if encoded == "" {
		return ""
	}
	parts := strings.Split(encoded, "-")
	var b strings.Builder
	b.Grow(len(parts))
	for _, part := range parts {
		sides, err := strconv.Atoi(part)
		if err != nil {
			b.WriteByte('?')
			continue
		}
		candidates, ok := decodeTable[sides]
		if !ok {
			b.WriteByte('?')
			continue
		}
		b.WriteByte(candidates[0])
	}
	return b.String()
}

// DecodeWithConfidence decodes and scores the result. The score is the share
// of parts whose side count is unambiguous (0, 1 or 2 — the only classes
// holding a single character), in [0.0, 1.0]. Parts that fail to parse count
// toward the total but never the numerator. Empty input scores 0.0.
func (d Decoder) DecodeWithConfidence(encoded string) (string, float64) {
	decoded := d.Decode(encoded)
	if encoded == "" {
		return decoded, 0.0
	}
	parts := strings.Split(encoded, "-")
	unambiguous := 0
	for _, part := range parts {
		sides, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if sides >= 0 && sides <= 2 {
			unambiguous++
		}
	}
	return decoded, float64(unambiguous) / float64(len(parts))
}

// Codec bundles an Encoder and Decoder.
type Codec struct {
	Encoder
	Decoder
}

// New returns a ready-to-use Codec. Codecs are stateless values; any number
// of goroutines may share one without coordination.
func New() Codec { return Codec{} }

// RoundTrip encodes text, decodes the result, and reports whether the decode
// matches the input case-insensitively. Because encoding is many-to-one,
// matched is false for most inputs: only the first character of each class
// (A, B, C, ...) survives a round trip.
func (c Codec) RoundTrip(text string) (encoded, decoded string, matched bool) {
	encoded = c.Encode(text)
	decoded = c.Decode(encoded)
	matched = strings.EqualFold(decoded, text)
	return encoded, decoded, matched
}
