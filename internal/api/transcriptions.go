package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/voicevista/voicevista/internal/transcript"
)

// Transcriptions lists the signed-in user's records, most recent first.
func (c *Client) Transcriptions(ctx context.Context) ([]transcript.Record, error) {
	var recs []transcript.Record
	if err := c.doJSON(ctx, http.MethodGet, "/api/transcriptions", nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Transcription fetches one record.
func (c *Client) Transcription(ctx context.Context, id int64) (transcript.Record, error) {
	if id <= 0 {
		return transcript.Record{}, errMissingID
	}
	var rec transcript.Record
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/transcriptions/%d", id), nil, &rec)
	return rec, err
}

// DeleteTranscription deletes one record.
func (c *Client) DeleteTranscription(ctx context.Context, id int64) error {
	if id <= 0 {
		return errMissingID
	}
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/transcriptions/%d", id), nil, nil)
}

// DeleteAllTranscriptions deletes every record of the signed-in user.
func (c *Client) DeleteAllTranscriptions(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/transcriptions", nil, nil)
}

// UploadAudio sends audio as the "audio" multipart field.
func (c *Client) UploadAudio(ctx context.Context, filename string, r io.Reader) (UploadResponse, error) {
	var resp UploadResponse
	err := c.doMultipart(ctx, "/api/upload", "audio", filename, r, &resp)
	return resp, err
}

// UploadAudioFile opens path and uploads it.
func (c *Client) UploadAudioFile(ctx context.Context, path string) (UploadResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return UploadResponse{}, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()
	return c.UploadAudio(ctx, filepath.Base(path), f)
}

// DownloadTranscript fetches the rendered transcript blob. The caller must
// close the returned reader.
func (c *Client) DownloadTranscript(ctx context.Context, id int64, format transcript.Format, lang transcript.Language) (io.ReadCloser, error) {
	if id <= 0 {
		return nil, errMissingID
	}
	q := url.Values{}
	q.Set("format", string(format))
	q.Set("lang", string(lang))
	path := fmt.Sprintf("/api/transcriptions/%d/download?%s", id, q.Encode())

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
