package getmotion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func TestRender(t *testing.T) {
	ctx := context.Background()

	t.Run("queues with default flags", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/jobs/job-1/render" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("force") != "false" || q.Get("keep_bin") != "false" {
				t.Errorf("unexpected query: %s", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`{"job_id":"job-1","status":"QUEUED_INJECT"}`))
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		job := &Job{ID: "job-1", client: c}

		res, err := job.Render(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != StatusQueuedInject {
			t.Errorf("unexpected result: %+v", res)
		}
	})

	t.Run("passes force and keep_bin", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("force") != "true" || q.Get("keep_bin") != "true" {
				t.Errorf("unexpected query: %s", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`{"job_id":"job-1","status":"QUEUED_INJECT"}`))
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		job := &Job{ID: "job-1", client: c}

		if _, err := job.Render(ctx, &RenderOptions{Force: true, KeepBin: true}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("a non-renderable job yields ErrConflict", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"detail":"job is not in a renderable state"}`))
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		job := &Job{ID: "job-1", client: c}

		_, err := job.Render(ctx, nil)
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})
}

func TestRenders(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the newest version", func(t *testing.T) {
		var details atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/jobs/job-1/renders/versions":
				_, _ = w.Write([]byte(`{"versions":[{"version":"0001"},{"version":"0002"}]}`))
			case "/jobs/job-1/renders/versions/0002":
				details.Add(1)
				_, _ = w.Write([]byte(`{"renders":[{"s3_key":"jobs/job-1/renders/0002/final.mp4","url":"https://cdn.example/final.mp4","bytes":1048576}]}`))
			default:
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		job := &Job{ID: "job-1", client: c}

		list, err := job.Renders(ctx, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(list.Renders) != 1 || list.Renders[0].Bytes != 1048576 {
			t.Errorf("unexpected list: %+v", list)
		}
		if got := details.Load(); got != 1 {
			t.Errorf("expected 1 detail fetch, got %d", got)
		}
	})

	t.Run("no renders yields an empty list", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/jobs/job-1/renders/versions" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(`{"versions":[]}`))
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		job := &Job{ID: "job-1", client: c}

		list, err := job.Renders(ctx, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(list.Renders) != 0 {
			t.Errorf("expected an empty list, got %+v", list)
		}
	})

	t.Run("an explicit version skips the listing", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/jobs/job-1/renders/versions/0001" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(`{"renders":[{"s3_key":"jobs/job-1/renders/0001/final.mp4"}]}`))
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		job := &Job{ID: "job-1", client: c}

		list, err := job.Renders(ctx, "0001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(list.Renders) != 1 {
			t.Errorf("unexpected list: %+v", list)
		}
	})
}

func TestDownloadRender(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the object to disk", func(t *testing.T) {
		payload := []byte("rendered video bytes")
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-API-Key") != "" {
				t.Error("download must not carry API credentials")
			}
			_, _ = w.Write(payload)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		dest := filepath.Join(t.TempDir(), "final.mp4")

		if err := c.DownloadRender(ctx, Render{URL: srv.URL + "/obj"}, dest); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("failed to read downloaded file: %v", err)
		}
		if string(data) != string(payload) {
			t.Errorf("unexpected file content: %q", data)
		}
	})

	t.Run("requires a presigned url", func(t *testing.T) {
		c := pollClient()
		err := c.DownloadRender(ctx, Render{S3Key: "jobs/job-1/renders/0001/final.mp4"}, "out.mp4")
		if !errors.Is(err, ErrNoRenderURL) {
			t.Fatalf("expected ErrNoRenderURL, got %v", err)
		}
	})

	t.Run("surfaces http failures", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		err := c.DownloadRender(ctx, Render{URL: srv.URL + "/gone"}, filepath.Join(t.TempDir(), "out.mp4"))
		if err == nil || !strings.Contains(err.Error(), "status 404") {
			t.Fatalf("expected a download failure, got %v", err)
		}
	})
}
