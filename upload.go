package getmotion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// UploadTarget is one presigned upload destination.
type UploadTarget struct {
	URL string `json:"url"`
	// Key is the storage key the object lands under.
	Key string `json:"key"`
	// Fields, when present, are the form fields of a presigned POST; their
	// absence means the target is a presigned PUT.
	Fields map[string]string `json:"fields,omitempty"`
}

type presignRequest struct {
	JobID       string `json:"job_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type presignResponse struct {
	Targets []UploadTarget `json:"targets"`
}

// UploadOptions configures UploadAudio.
type UploadOptions struct {
	// ContentType overrides the type inferred from the file extension.
	ContentType string
}

// UploadAudio uploads the narration audio for the job through presigned
// storage targets. The server keys the object per job; the local filename
// only influences the inferred content type.
func (j *Job) UploadAudio(ctx context.Context, path string, opts *UploadOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("getmotion: read audio file: %w", err)
	}

	contentType := ""
	if opts != nil {
		contentType = opts.ContentType
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(path))
	}
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	req := presignRequest{JobID: j.ID, Filename: "audio.mp3", ContentType: contentType}
	var res presignResponse
	if err := j.client.doJSON(ctx, http.MethodPost, "/presign", nil, req, &res); err != nil {
		return err
	}
	if len(res.Targets) == 0 {
		return ErrNoUploadTargets
	}

	for _, target := range res.Targets {
		if err := j.client.uploadTo(ctx, target, filepath.Base(path), contentType, data); err != nil {
			return err
		}
	}

	return nil
}

// uploadTo pushes the payload to one presigned target. The request goes to
// the storage host directly, without API credentials, on the unbounded
// client so large files are limited only by ctx.
func (c *Client) uploadTo(ctx context.Context, target UploadTarget, filename, contentType string, data []byte) error {
	var req *http.Request
	var err error

	if len(target.Fields) > 0 {
		body, formType, buildErr := multipartUploadBody(target.Fields, filename, contentType, data)
		if buildErr != nil {
			return buildErr
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, target.URL, body)
		if err == nil {
			req.Header.Set("Content-Type", formType)
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPut, target.URL, bytes.NewReader(data))
		if err == nil {
			req.Header.Set("Content-Type", contentType)
		}
	}
	if err != nil {
		return fmt.Errorf("getmotion: create upload request: %w", err)
	}

	resp, err := c.longClient.Do(req)
	if err != nil {
		return fmt.Errorf("getmotion: upload request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("getmotion: upload to %s failed with status %d: %s",
			target.Key, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}

func multipartUploadBody(fields map[string]string, filename, contentType string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	// Presigned POST policies require the form fields before the file part
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("getmotion: write form field: %w", err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("getmotion: create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("getmotion: write file part: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("getmotion: close multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
