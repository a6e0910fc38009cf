package fallback

import (
	"encoding/base64"
	"encoding/binary"

	"github.com/mindmirror-ai/mindmirror/internal/resolve"
)

// TranscriptionLocal has no offline recognizer to fall back on; it
// returns guidance text so the payload contract still holds.
type TranscriptionLocal struct{}

// NewTranscriptionLocal creates the transcription fallback.
func NewTranscriptionLocal() *TranscriptionLocal {
	return &TranscriptionLocal{}
}

// Generate implements resolve.LocalGenerator.
func (g *TranscriptionLocal) Generate(req resolve.Request) (map[string]any, error) {
	return map[string]any{
		"text":       "[Audio transcription is temporarily unavailable. Please speak clearly and try again, or use text input.]",
		"model_used": "none",
	}, nil
}

// SpeechLocal synthesizes a short silent WAV clip. It carries no voice,
// but it keeps the audio contract intact when every TTS provider is down,
// so players downstream receive a decodable file instead of an error.
type SpeechLocal struct{}

// NewSpeechLocal creates the speech fallback.
func NewSpeechLocal() *SpeechLocal {
	return &SpeechLocal{}
}

// Generate implements resolve.LocalGenerator.
func (g *SpeechLocal) Generate(req resolve.Request) (map[string]any, error) {
	return map[string]any{
		"audio":      base64.StdEncoding.EncodeToString(SilentWAV(1)),
		"format":     "wav",
		"model_used": "silence",
	}, nil
}

const (
	wavSampleRate = 16000
	wavBitsPerSmp = 16
)

// SilentWAV builds a mono 16 kHz PCM WAV file of the given length in
// seconds, all samples zero.
func SilentWAV(seconds int) []byte {
	if seconds < 1 {
		seconds = 1
	}
	dataLen := wavSampleRate * seconds * wavBitsPerSmp / 8

	buf := make([]byte, 0, 44+dataLen)
	le := binary.LittleEndian

	u32 := func(v uint32) []byte {
		b := make([]byte, 4)
		le.PutUint32(b, v)
		return b
	}
	u16 := func(v uint16) []byte {
		b := make([]byte, 2)
		le.PutUint16(b, v)
		return b
	}

	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, u32(uint32(36+dataLen))...)
	buf = append(buf, []byte("WAVE")...)
	buf = append(buf, []byte("fmt ")...)
	buf = append(buf, u32(16)...)                              // fmt chunk size
	buf = append(buf, u16(1)...)                               // PCM
	buf = append(buf, u16(1)...)                               // mono
	buf = append(buf, u32(wavSampleRate)...)                   // sample rate
	buf = append(buf, u32(wavSampleRate*wavBitsPerSmp/8)...)   // byte rate
	buf = append(buf, u16(wavBitsPerSmp/8)...)                 // block align
	buf = append(buf, u16(wavBitsPerSmp)...)                   // bits per sample
	buf = append(buf, []byte("data")...)
	buf = append(buf, u32(uint32(dataLen))...)
	buf = append(buf, make([]byte, dataLen)...)
	return buf
}
