// Package tts abstracts remote text-to-speech providers behind a single
// Provider interface. Providers return audio as a stream of byte chunks;
// callers that need the whole clip buffer it with ReadAll.
package tts

import (
	"bytes"
	"context"
	"errors"
	"io"
)

// Request contains everything a provider needs to synthesize one clip.
type Request struct {
	Text     string
	VoiceID  string
	ModelID  string
	Format   string
	Settings Settings
}

// Settings controls voice characteristics for providers that support them.
// All three sliders are in [0, 1]. Providers without an equivalent knob
// ignore the fields they cannot express.
type Settings struct {
	Stability         float64
	SimilarityBoost   float64
	Style             float64
	UseSpeakerBoost   bool
	TextNormalization string
}

// Stream is a lazy sequence of encoded audio chunks. Read returns io.EOF
// once the clip is complete. Callers must Close the stream.
type Stream interface {
	Read() ([]byte, error)
	Close() error
}

// Provider is the contract for producing audio from text. A raised error
// means the whole clip failed; there is no partial-success signal.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, req Request) (Stream, error)
}

// ReadAll drains a stream and returns the complete clip. The payload is
// buffered eagerly; nothing is handed to the caller until the provider has
// finished sending.
func ReadAll(s Stream) ([]byte, error) {
	defer s.Close()
	var buf bytes.Buffer
	for {
		chunk, err := s.Read()
		if len(chunk) > 0 {
			buf.Write(chunk)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return buf.Bytes(), nil
			}
			return nil, err
		}
	}
}

// readerStream adapts an io.ReadCloser (typically an HTTP response body)
// into a Stream of bounded chunks.
type readerStream struct {
	rc  io.ReadCloser
	buf []byte
}

func newReaderStream(rc io.ReadCloser) Stream {
	return &readerStream{rc: rc, buf: make([]byte, 8192)}
}

func (s *readerStream) Read() ([]byte, error) {
	n, err := s.rc.Read(s.buf)
	if n > 0 {
		chunk := make([]byte, n)
		copy(chunk, s.buf[:n])
		return chunk, err
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

func (s *readerStream) Close() error {
	return s.rc.Close()
}

// byteStream serves a fully materialized clip as a single chunk, for
// providers whose APIs return the complete payload in one response.
type byteStream struct {
	data []byte
	done bool
}

func newByteStream(data []byte) Stream {
	return &byteStream{data: data}
}

func (s *byteStream) Read() ([]byte, error) {
	if s.done {
		return nil, io.EOF
	}
	s.done = true
	return s.data, nil
}

func (s *byteStream) Close() error { return nil }
