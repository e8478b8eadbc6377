package getmotion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
)

// RenderOptions configures Render.
type RenderOptions struct {
	// Force re-renders even when the current blueprint already has output.
	Force bool
	// KeepBin keeps the intermediate render binary on the server.
	KeepBin bool
}

// RenderQueued is the response of the render endpoint.
type RenderQueued struct {
	JobID   string `json:"job_id"`
	Status  Status `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// Render queues a render of the job's current blueprint. A job that is not
// in a renderable state yields ErrConflict.
func (j *Job) Render(ctx context.Context, opts *RenderOptions) (*RenderQueued, error) {
	var force, keepBin bool
	if opts != nil {
		force = opts.Force
		keepBin = opts.KeepBin
	}
	query := url.Values{
		"force":    {strconv.FormatBool(force)},
		"keep_bin": {strconv.FormatBool(keepBin)},
	}

	var res RenderQueued
	if err := j.client.doJSON(ctx, http.MethodPost, fmt.Sprintf("/jobs/%s/render", j.ID), query, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// RenderVersion identifies one immutable render output set.
type RenderVersion struct {
	Version   string `json:"version"`
	CreatedAt string `json:"created_at,omitempty"`
}

type renderVersionsResponse struct {
	Versions []RenderVersion `json:"versions"`
}

// RenderVersions lists the job's render versions, oldest first.
func (j *Job) RenderVersions(ctx context.Context) ([]RenderVersion, error) {
	var res renderVersionsResponse
	if err := j.client.doJSON(ctx, http.MethodGet, fmt.Sprintf("/jobs/%s/renders/versions", j.ID), nil, nil, &res); err != nil {
		return nil, err
	}
	return res.Versions, nil
}

// Render is one rendered output object.
type Render struct {
	S3Key string `json:"s3_key"`
	// URL is a presigned download link for the object.
	URL   string `json:"url,omitempty"`
	ETag  string `json:"etag,omitempty"`
	Bytes int64  `json:"bytes,omitempty"`
}

// RenderList is the output set of one render version.
type RenderList struct {
	Renders []Render `json:"renders"`
}

// Renders lists the output objects of a render version. An empty version
// resolves to the newest one; a job with no renders yields an empty list.
func (j *Job) Renders(ctx context.Context, version string) (*RenderList, error) {
	if version == "" {
		versions, err := j.RenderVersions(ctx)
		if err != nil {
			return nil, err
		}
		if len(versions) == 0 {
			return &RenderList{}, nil
		}
		version = versions[len(versions)-1].Version
	}

	var list RenderList
	if err := j.client.doJSON(ctx, http.MethodGet, fmt.Sprintf("/jobs/%s/renders/versions/%s", j.ID, version), nil, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DownloadRender streams the render's presigned URL to destPath. The
// storage host authorizes the URL itself; no API key is sent.
func (c *Client) DownloadRender(ctx context.Context, r Render, destPath string) error {
	if r.URL == "" {
		return ErrNoRenderURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return fmt.Errorf("getmotion: create download request: %w", err)
	}

	resp, err := c.longClient.Do(req)
	if err != nil {
		return fmt.Errorf("getmotion: download request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("getmotion: download failed with status %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("getmotion: create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("getmotion: copy download data: %w", err)
	}

	return nil
}
