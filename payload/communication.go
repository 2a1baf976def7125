// Package payload implements the binary framing used to move string vectors
// and string outputs across the plugin ABI boundary.
//
// Wire format (all integers little-endian):
//
//	Communication := tag:u8 body
//	  tag = 0 -> Inputs body = SizedVec<u32, SizedString<u32>>
//	  tag = 1 -> Output body = SizedString<u32>
//	SizedVec<L,E>   := len:L element*len
//	SizedString<L>  := len:L byte*len   // UTF-8, no NUL terminator
package payload

import (
	"encoding/binary"
	"fmt"
)

const (
	tagInputs byte = 0
	tagOutput byte = 1

	// maxFrameLen bounds any single length prefix the encoder writes; the
	// plugin host additionally rejects encoded payloads larger than this
	// before a host-to-plugin write (see maxInputBytes in package plugin).
	// The decoder does not use it: it bounds every length prefix by the
	// bytes remaining in the buffer instead.
	maxFrameLen = 1 << 31 - 1
)

// Kind distinguishes the two Communication variants.
type Kind uint8

const (
	KindInputs Kind = iota
	KindOutput
)

// Communication is the decoded form of a payload frame. Exactly one of
// Inputs/Output is meaningful, selected by Kind.
type Communication struct {
	Kind   Kind
	Inputs []string
	Output string
}

// NewInputs builds an Inputs-variant Communication.
func NewInputs(inputs []string) Communication {
	return Communication{Kind: KindInputs, Inputs: inputs}
}

// NewOutput builds an Output-variant Communication.
func NewOutput(output string) Communication {
	return Communication{Kind: KindOutput, Output: output}
}

// Encode serializes c into its wire representation. Encoding is deterministic:
// the same logical value always produces the same bytes.
func Encode(c Communication) ([]byte, error) {
	switch c.Kind {
	case KindInputs:
		return encodeInputs(c.Inputs)
	case KindOutput:
		return encodeOutput(c.Output)
	default:
		return nil, fmt.Errorf("payload: unknown communication kind %d", c.Kind)
	}
}

func encodeInputs(inputs []string) ([]byte, error) {
	if uint64(len(inputs)) > maxFrameLen {
		return nil, fmt.Errorf("payload: inputs vector too large (%d elements)", len(inputs))
	}
	size := 1 + 4
	for _, s := range inputs {
		if uint64(len(s)) > maxFrameLen {
			return nil, fmt.Errorf("payload: input string too large (%d bytes)", len(s))
		}
		size += 4 + len(s)
	}
	buf := make([]byte, size)
	buf[0] = tagInputs
	binary.LittleEndian.PutUint32(buf[1:5], uint32(len(inputs)))
	off := 5
	for _, s := range inputs {
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(s)))
		off += 4
		copy(buf[off:off+len(s)], s)
		off += len(s)
	}
	return buf, nil
}

func encodeOutput(output string) ([]byte, error) {
	if uint64(len(output)) > maxFrameLen {
		return nil, fmt.Errorf("payload: output string too large (%d bytes)", len(output))
	}
	buf := make([]byte, 1+4+len(output))
	buf[0] = tagOutput
	binary.LittleEndian.PutUint32(buf[1:5], uint32(len(output)))
	copy(buf[5:], output)
	return buf, nil
}

// Decode parses a wire frame. It rejects inputs where a length prefix exceeds
// the remaining buffer, where UTF-8 is malformed, or where the tag is
// unknown. Decode never partially mutates caller state: it either returns a
// fully-formed Communication or an error.
func Decode(buf []byte) (Communication, error) {
	if len(buf) < 1 {
		return Communication{}, fmt.Errorf("payload: empty buffer, expected a tag byte")
	}
	switch buf[0] {
	case tagInputs:
		return decodeInputs(buf[1:])
	case tagOutput:
		return decodeOutput(buf[1:])
	default:
		return Communication{}, fmt.Errorf("payload: unknown tag byte 0x%02x", buf[0])
	}
}

func decodeInputs(buf []byte) (Communication, error) {
	n, rest, err := readU32(buf)
	if err != nil {
		return Communication{}, fmt.Errorf("payload: inputs vector length: %w", err)
	}
	// Every element carries at least a 4-byte length prefix.
	if uint64(n)*4 > uint64(len(rest)) {
		return Communication{}, fmt.Errorf("payload: inputs vector claims %d elements, only %d bytes remain", n, len(rest))
	}
	inputs := make([]string, 0, n)
	for i := uint32(0); i < n; i++ {
		s, tail, err := readSizedString(rest)
		if err != nil {
			return Communication{}, fmt.Errorf("payload: inputs[%d]: %w", i, err)
		}
		inputs = append(inputs, s)
		rest = tail
	}
	return NewInputs(inputs), nil
}

func decodeOutput(buf []byte) (Communication, error) {
	s, _, err := readSizedString(buf)
	if err != nil {
		return Communication{}, fmt.Errorf("payload: output string: %w", err)
	}
	return NewOutput(s), nil
}

func readU32(buf []byte) (uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, fmt.Errorf("truncated length prefix: need 4 bytes, have %d", len(buf))
	}
	return binary.LittleEndian.Uint32(buf[:4]), buf[4:], nil
}

func readSizedString(buf []byte) (string, []byte, error) {
	n, rest, err := readU32(buf)
	if err != nil {
		return "", nil, err
	}
	if uint64(len(rest)) < uint64(n) {
		return "", nil, fmt.Errorf("truncated string: need %d bytes, have %d", n, len(rest))
	}
	raw := rest[:n]
	if !validUTF8(raw) {
		return "", nil, fmt.Errorf("malformed UTF-8 in string payload")
	}
	return string(raw), rest[n:], nil
}
