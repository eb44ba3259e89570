package wavio

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// bext fixed-field layout per EBU Tech 3285. The version, UMID, loudness, and
// reserved region are not interpreted; they round-trip as an opaque block.
const (
	bextDescriptionLen = 256
	bextOriginatorLen  = 32
	bextOrigRefLen     = 32
	bextDateLen        = 10
	bextTimeLen        = 8
	bextFixedHead      = bextDescriptionLen + bextOriginatorLen + bextOrigRefLen + bextDateLen + bextTimeLen + 8
	bextOpaqueLen      = 256
	bextFixedTotal     = bextFixedHead + bextOpaqueLen
)

// Bext is the decoded broadcast metadata chunk.
type Bext struct {
	Description         string
	Originator          string
	OriginatorReference string
	OriginationDate     string
	OriginationTime     string
	TimeReferenceLow    uint32
	TimeReferenceHigh   uint32
	CodingHistory       string

	// opaque carries version, UMID, loudness, and reserved bytes verbatim.
	opaque []byte
}

func decodeBext(body []byte) (*Bext, error) {
	if len(body) < bextFixedHead {
		return nil, fmt.Errorf("bext chunk too short: %d bytes", len(body))
	}

	b := &Bext{
		Description:         decodeLatin1Field(body[0:bextDescriptionLen]),
		Originator:          decodeLatin1Field(body[256:288]),
		OriginatorReference: decodeLatin1Field(body[288:320]),
		OriginationDate:     decodeLatin1Field(body[320:330]),
		OriginationTime:     decodeLatin1Field(body[330:338]),
		TimeReferenceLow:    binary.LittleEndian.Uint32(body[338:342]),
		TimeReferenceHigh:   binary.LittleEndian.Uint32(body[342:346]),
	}

	opaqueEnd := len(body)
	if opaqueEnd > bextFixedTotal {
		opaqueEnd = bextFixedTotal
	}
	b.opaque = append([]byte(nil), body[bextFixedHead:opaqueEnd]...)

	if len(body) > bextFixedTotal {
		b.CodingHistory = decodeLatin1Field(body[bextFixedTotal:])
	}
	return b, nil
}

func encodeBext(b *Bext) ([]byte, error) {
	out := make([]byte, bextFixedTotal)

	if err := putLatin1Field(out[0:bextDescriptionLen], b.Description, "description"); err != nil {
		return nil, err
	}
	if err := putLatin1Field(out[256:288], b.Originator, "originator"); err != nil {
		return nil, err
	}
	if err := putLatin1Field(out[288:320], b.OriginatorReference, "originator reference"); err != nil {
		return nil, err
	}
	if err := putLatin1Field(out[320:330], b.OriginationDate, "origination date"); err != nil {
		return nil, err
	}
	if err := putLatin1Field(out[330:338], b.OriginationTime, "origination time"); err != nil {
		return nil, err
	}
	binary.LittleEndian.PutUint32(out[338:342], b.TimeReferenceLow)
	binary.LittleEndian.PutUint32(out[342:346], b.TimeReferenceHigh)
	copy(out[bextFixedHead:], b.opaque)

	if b.CodingHistory != "" {
		history, err := encodeLatin1(b.CodingHistory)
		if err != nil {
			return nil, fmt.Errorf("coding history: %w", err)
		}
		out = append(out, history...)
	}
	return out, nil
}

func decodeLatin1Field(raw []byte) string {
	trimmed := bytes.TrimRight(raw, "\x00")
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(trimmed)
	if err != nil {
		// Latin-1 decoding is total; this branch guards future codec swaps.
		return string(trimmed)
	}
	return string(bytes.TrimRight(decoded, " "))
}

func encodeLatin1(value string) ([]byte, error) {
	encoder := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
	return encoder.Bytes([]byte(value))
}

func putLatin1Field(dst []byte, value, field string) error {
	encoded, err := encodeLatin1(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if len(encoded) > len(dst) {
		encoded = encoded[:len(dst)]
	}
	copy(dst, encoded)
	return nil
}
