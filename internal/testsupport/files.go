package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"slated/internal/wavio"
)

// WAVSpec describes a fixture WAV container.
type WAVSpec struct {
	SampleRate uint32
	Channels   uint16
	Bits       uint16
	// Seconds of silence in the data chunk. Zero means a minimal payload.
	Seconds int
	IXML    string
	Bext    *wavio.Bext
	// Extra raw chunks appended after data, for round-trip checks.
	Extra []wavio.Chunk
}

func (s *WAVSpec) defaults() {
	if s.SampleRate == 0 {
		s.SampleRate = 48000
	}
	if s.Channels == 0 {
		s.Channels = 1
	}
	if s.Bits == 0 {
		s.Bits = 16
	}
}

// BuildWAV renders a WAV byte buffer for the spec.
func BuildWAV(t *testing.T, spec WAVSpec) []byte {
	t.Helper()
	spec.defaults()

	blockAlign := spec.Channels * spec.Bits / 8
	fmtBody := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtBody[0:2], 1) // PCM
	binary.LittleEndian.PutUint16(fmtBody[2:4], spec.Channels)
	binary.LittleEndian.PutUint32(fmtBody[4:8], spec.SampleRate)
	binary.LittleEndian.PutUint32(fmtBody[8:12], spec.SampleRate*uint32(blockAlign))
	binary.LittleEndian.PutUint16(fmtBody[12:14], blockAlign)
	binary.LittleEndian.PutUint16(fmtBody[14:16], spec.Bits)

	dataLen := int(blockAlign) * 2
	if spec.Seconds > 0 {
		dataLen = spec.Seconds * int(spec.SampleRate) * int(blockAlign)
	}

	var payload []byte
	payload = append(payload, "WAVE"...)
	payload = appendChunk(payload, "fmt ", fmtBody)
	payload = appendChunk(payload, "data", make([]byte, dataLen))
	for _, c := range spec.Extra {
		payload = appendChunk(payload, c.ID, c.Body)
	}

	var shell []byte
	shell = append(shell, "RIFF"...)
	shell = binary.LittleEndian.AppendUint32(shell, uint32(len(payload)))
	shell = append(shell, payload...)

	file, err := wavio.Parse(shell)
	if err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	if spec.IXML != "" {
		file.SetIXML(spec.IXML)
	}
	if spec.Bext != nil {
		if err := file.SetBext(spec.Bext); err != nil {
			t.Fatalf("build fixture bext: %v", err)
		}
	}
	return file.Bytes()
}

// WriteWAV writes a fixture WAV to path, creating parent directories.
func WriteWAV(t *testing.T, path string, spec WAVSpec) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir fixture dir: %v", err)
	}
	if err := os.WriteFile(path, BuildWAV(t, spec), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func appendChunk(buf []byte, id string, body []byte) []byte {
	buf = append(buf, id...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(body)))
	buf = append(buf, body...)
	if len(body)%2 == 1 {
		buf = append(buf, 0)
	}
	return buf
}
