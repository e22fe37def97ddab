package stream

import (
	"errors"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder turns arbitrary byte chunks into UTF-8 text. A multi-byte sequence
// split across chunks is held back until the rest arrives; invalid bytes
// become U+FFFD.
type Decoder struct {
	t     transform.Transformer
	carry []byte
	dst   []byte
}

// NewDecoder returns a Decoder with an empty carry buffer.
func NewDecoder() *Decoder {
	return &Decoder{
		t:   unicode.UTF8.NewDecoder(),
		dst: make([]byte, 4096),
	}
}

// Decode returns the text completed by chunk.
func (d *Decoder) Decode(chunk []byte) string {
	return d.run(chunk, false)
}

// Flush decodes whatever is still carried, replacing an incomplete trailing
// sequence with U+FFFD. Call it once at end of stream.
func (d *Decoder) Flush() string {
	return d.run(nil, true)
}

func (d *Decoder) run(chunk []byte, atEOF bool) string {
	src := append(d.carry, chunk...)
	var out strings.Builder
	for {
		nDst, nSrc, err := d.t.Transform(d.dst, src, atEOF)
		out.Write(d.dst[:nDst])
		src = src[nSrc:]
		if errors.Is(err, transform.ErrShortDst) {
			if nDst == 0 && nSrc == 0 {
				d.dst = make([]byte, 2*len(d.dst))
			}
			continue
		}
		// nil means src was consumed; ErrShortSrc leaves an incomplete
		// sequence in src to carry.
		break
	}
	d.carry = append(d.carry[:0:0], src...)
	if atEOF {
		d.carry = nil
		d.t.Reset()
	}
	return out.String()
}
