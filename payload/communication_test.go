package payload

import (
	"bytes"
	"testing"
)

func TestRoundTripInputs(t *testing.T) {
	cases := [][]string{
		nil,
		{},
		{"hello"},
		{"x", "y"},
		{"", "unicode: héllo wörld 日本語", "emoji: 🎉🚀"},
	}
	for _, inputs := range cases {
		enc, err := Encode(NewInputs(inputs))
		if err != nil {
			t.Fatalf("Encode(%q): %v", inputs, err)
		}
		dec, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%q): %v", inputs, err)
		}
		if dec.Kind != KindInputs {
			t.Fatalf("decoded kind = %v, want KindInputs", dec.Kind)
		}
		if len(dec.Inputs) != len(inputs) {
			t.Fatalf("decoded %d inputs, want %d", len(dec.Inputs), len(inputs))
		}
		for i := range inputs {
			if dec.Inputs[i] != inputs[i] {
				t.Fatalf("decoded[%d] = %q, want %q", i, dec.Inputs[i], inputs[i])
			}
		}
	}
}

func TestRoundTripOutput(t *testing.T) {
	cases := []string{"", "y, x", "a long output string with spaces and 日本語"}
	for _, out := range cases {
		enc, err := Encode(NewOutput(out))
		if err != nil {
			t.Fatalf("Encode(%q): %v", out, err)
		}
		dec, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%q): %v", out, err)
		}
		if dec.Kind != KindOutput {
			t.Fatalf("decoded kind = %v, want KindOutput", dec.Kind)
		}
		if dec.Output != out {
			t.Fatalf("decoded output = %q, want %q", dec.Output, out)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	c := NewInputs([]string{"x", "y"})
	a, err := Encode(c)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encode(c)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("encoding not deterministic: %x != %x", a, b)
	}
}

func TestDecodeRejectsUnknownTag(t *testing.T) {
	if _, err := Decode([]byte{0x7f}); err == nil {
		t.Fatal("expected error for unknown tag")
	}
}

func TestDecodeRejectsTruncatedLength(t *testing.T) {
	if _, err := Decode([]byte{tagOutput, 0xff, 0xff, 0xff, 0x7f}); err == nil {
		t.Fatal("expected error for length prefix exceeding remaining buffer")
	}
}

func TestDecodeRejectsTruncatedVector(t *testing.T) {
	buf := []byte{tagInputs, 0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 'a'}
	if _, err := Decode(buf); err == nil {
		t.Fatal("expected error: vector claims 2 elements but only 1 is present")
	}
}

func TestDecodeRejectsMalformedUTF8(t *testing.T) {
	buf := []byte{tagOutput, 0x01, 0x00, 0x00, 0x00, 0xff}
	if _, err := Decode(buf); err == nil {
		t.Fatal("expected error for malformed UTF-8")
	}
}

func TestDecodeEmptyBuffer(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Fatal("expected error for empty buffer")
	}
}

func TestExactWireLayout(t *testing.T) {
	enc, err := Encode(NewOutput("hi"))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{tagOutput, 0x02, 0x00, 0x00, 0x00, 'h', 'i'}
	if !bytes.Equal(enc, want) {
		t.Fatalf("wire layout = %x, want %x", enc, want)
	}
}
