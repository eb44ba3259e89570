package wavio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// ErrNotWave reports that a byte buffer is not a RIFF/WAVE container.
var ErrNotWave = errors.New("not a RIFF/WAVE container")

const (
	chunkFmt  = "fmt "
	chunkData = "data"
	chunkBext = "bext"
	chunkIXML = "iXML"
)

// Chunk is one raw RIFF sub-chunk. Chunks the accessor does not interpret are
// carried through Bytes unchanged and in their original order.
type Chunk struct {
	ID   string
	Body []byte
}

// FormatInfo is the decoded fmt chunk.
type FormatInfo struct {
	FormatTag     uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// FormatName returns a human-readable name for the encoding format tag.
func (f FormatInfo) FormatName() string {
	switch f.FormatTag {
	case 1:
		return "PCM"
	case 3:
		return "IEEE float"
	case 6:
		return "A-law"
	case 7:
		return "mu-law"
	case 0xFFFE:
		return "extensible"
	case 0:
		return ""
	default:
		return fmt.Sprintf("0x%04X", f.FormatTag)
	}
}

// File is a parsed WAV container. It decodes the chunks slated interprets and
// keeps every chunk's raw body so Bytes reproduces the container without
// touching unrecognized data.
type File struct {
	chunks   []Chunk
	format   FormatInfo
	hasFmt   bool
	fmtErr   error
	dataSize int
}

// Parse decodes a WAV byte buffer. It fails only when the outer RIFF/WAVE
// framing is absent; truncated or malformed sub-chunks terminate the walk and
// leave the chunks read so far available.
func Parse(data []byte) (*File, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, ErrNotWave
	}

	f := &File{}
	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		offset += 8
		if size < 0 || offset+size > len(data) {
			// Truncated chunk. Keep what was read cleanly.
			break
		}
		body := make([]byte, size)
		copy(body, data[offset:offset+size])
		f.chunks = append(f.chunks, Chunk{ID: id, Body: body})
		offset += size
		if size%2 == 1 {
			offset++ // RIFF pads odd-sized chunks
		}
	}

	f.decodeFmt()
	f.decodeData()
	return f, nil
}

func (f *File) decodeFmt() {
	body, ok := f.chunkBody(chunkFmt)
	if !ok {
		f.fmtErr = errors.New("fmt chunk missing")
		return
	}
	if len(body) < 16 {
		f.fmtErr = fmt.Errorf("fmt chunk too short: %d bytes", len(body))
		return
	}
	f.format = FormatInfo{
		FormatTag:     binary.LittleEndian.Uint16(body[0:2]),
		Channels:      binary.LittleEndian.Uint16(body[2:4]),
		SampleRate:    binary.LittleEndian.Uint32(body[4:8]),
		ByteRate:      binary.LittleEndian.Uint32(body[8:12]),
		BlockAlign:    binary.LittleEndian.Uint16(body[12:14]),
		BitsPerSample: binary.LittleEndian.Uint16(body[14:16]),
	}
	f.hasFmt = true
}

func (f *File) decodeData() {
	if body, ok := f.chunkBody(chunkData); ok {
		f.dataSize = len(body)
	}
}

// Format returns the decoded fmt chunk, or an error when the chunk is missing
// or malformed.
func (f *File) Format() (FormatInfo, error) {
	if !f.hasFmt {
		return FormatInfo{}, f.fmtErr
	}
	return f.format, nil
}

// DataSize returns the audio payload length in bytes.
func (f *File) DataSize() int { return f.dataSize }

// SampleCount derives the per-channel sample count from the data chunk.
func (f *File) SampleCount() int {
	if !f.hasFmt || f.format.BlockAlign == 0 {
		return 0
	}
	return f.dataSize / int(f.format.BlockAlign)
}

// DurationSeconds derives the audio duration from the data chunk.
func (f *File) DurationSeconds() float64 {
	if !f.hasFmt || f.format.SampleRate == 0 {
		return 0
	}
	return float64(f.SampleCount()) / float64(f.format.SampleRate)
}

// IXML returns the raw structured-metadata string, or empty when the chunk is
// absent.
func (f *File) IXML() string {
	body, ok := f.chunkBody(chunkIXML)
	if !ok {
		return ""
	}
	return strings.TrimRight(string(body), "\x00")
}

// SetIXML replaces (or appends) the structured-metadata chunk.
func (f *File) SetIXML(value string) {
	f.setChunk(chunkIXML, []byte(value))
}

// Bext decodes the broadcast metadata chunk. A missing chunk yields (nil, nil);
// a malformed one yields an error the caller may absorb.
func (f *File) Bext() (*Bext, error) {
	body, ok := f.chunkBody(chunkBext)
	if !ok {
		return nil, nil
	}
	return decodeBext(body)
}

// SetBext re-encodes the broadcast metadata chunk, replacing or appending it.
func (f *File) SetBext(b *Bext) error {
	if b == nil {
		return nil
	}
	body, err := encodeBext(b)
	if err != nil {
		return err
	}
	f.setChunk(chunkBext, body)
	return nil
}

// Bytes serializes the container back to WAV bytes. Unrecognized chunks are
// written verbatim in their original positions.
func (f *File) Bytes() []byte {
	total := 4 // "WAVE"
	for _, c := range f.chunks {
		total += 8 + len(c.Body)
		if len(c.Body)%2 == 1 {
			total++
		}
	}

	out := make([]byte, 0, 8+total)
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(total))
	out = append(out, "WAVE"...)
	for _, c := range f.chunks {
		out = append(out, c.ID...)
		out = binary.LittleEndian.AppendUint32(out, uint32(len(c.Body)))
		out = append(out, c.Body...)
		if len(c.Body)%2 == 1 {
			out = append(out, 0)
		}
	}
	return out
}

// Chunks exposes the raw chunk list, primarily for tests.
func (f *File) Chunks() []Chunk { return f.chunks }

func (f *File) chunkBody(id string) ([]byte, bool) {
	for _, c := range f.chunks {
		if c.ID == id {
			return c.Body, true
		}
	}
	return nil, false
}

func (f *File) setChunk(id string, body []byte) {
	for i, c := range f.chunks {
		if c.ID == id {
			f.chunks[i].Body = body
			return
		}
	}
	f.chunks = append(f.chunks, Chunk{ID: id, Body: body})
}
