package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// AudioSink consumes streamed PCM bytes for delivery to the dashboard.
// Reset drops anything queued, used when an utterance is cut off.
type AudioSink interface {
	WritePCM(pcm []byte)
	Reset()
}

type nopSink struct{}

func (nopSink) WritePCM([]byte) {}
func (nopSink) Reset()          {}

// ElevenLabsSynthesizer streams PCM audio for an utterance over the
// ElevenLabs HTTP streaming endpoint into an AudioSink.
type ElevenLabsSynthesizer struct {
	APIKey string
	Sink   AudioSink
	Client *http.Client
}

func NewElevenLabsSynthesizer(apiKey string, sink AudioSink) *ElevenLabsSynthesizer {
	if sink == nil {
		sink = nopSink{}
	}
	return &ElevenLabsSynthesizer{APIKey: apiKey, Sink: sink, Client: &http.Client{}}
}

// Speak streams synthesized audio until the utterance completes or ctx is
// cancelled. Cancellation drops queued audio so interruption feels instant.
func (e *ElevenLabsSynthesizer) Speak(ctx context.Context, text string, p Profile) error {
	if e.APIKey == "" || p.VoiceID == "" {
		return fmt.Errorf("elevenlabs: api key or voice id missing")
	}
	u := url.URL{
		Scheme: "https",
		Host:   "api.elevenlabs.io",
		Path:   "/v1/text-to-speech/" + p.VoiceID + "/stream",
	}
	q := u.Query()
	q.Set("model_id", "eleven_flash_v2_5")
	q.Set("output_format", "pcm_24000")
	u.RawQuery = q.Encode()

	body := map[string]any{
		"model_id": "eleven_flash_v2_5",
		"text":     text,
		"voice_settings": map[string]any{
			"stability":        0.4,
			"similarity_boost": 0.7,
			"speed":            p.Rate,
		},
	}
	buf, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("xi-api-key", e.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		e.Sink.Reset()
		return fmt.Errorf("elevenlabs stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("elevenlabs status=%d body=%s", resp.StatusCode, string(b))
	}

	chunk := make([]byte, 4096)
	for {
		n, rerr := resp.Body.Read(chunk)
		if n > 0 {
			out := make([]byte, n)
			copy(out, chunk[:n])
			e.Sink.WritePCM(out)
		}
		if rerr != nil {
			if rerr == io.EOF {
				return nil
			}
			if ctx.Err() != nil {
				e.Sink.Reset()
				return ctx.Err()
			}
			return fmt.Errorf("elevenlabs read: %w", rerr)
		}
	}
}
