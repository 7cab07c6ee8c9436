package estimation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	types "github.com/quotedesk/quotedesk-backend/internal/domain"
)

func visionGuardrails() types.Guardrails {
	return types.Guardrails{
		MaxImages:             6,
		MaxImageBytes:         64,
		ImageFetchTimeoutSecs: 5,
	}
}

func TestBuildVisionContentInlinesAndDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("tiny-png-bytes"))
		case "/huge.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte(strings.Repeat("x", 200)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	urls := []string{srv.URL + "/ok.png", srv.URL + "/huge.jpg", srv.URL + "/missing.jpg"}
	out := BuildVisionContent(context.Background(), testLogger(t), srv.Client(), urls, visionGuardrails())

	if len(out.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(out.Items))
	}
	if out.Inlined != 1 || out.Linked != 2 {
		t.Fatalf("expected 1 inlined / 2 linked, got %d/%d", out.Inlined, out.Linked)
	}

	ok := out.Items[0]
	if !ok.Inline || !strings.HasPrefix(ok.DataURL, "data:image/png;base64,") {
		t.Fatalf("good image not inlined as png data URL: %+v", ok)
	}

	// Oversize and missing both degrade to the source URL, never fail.
	for _, item := range out.Items[1:] {
		if item.Inline {
			t.Fatalf("expected URL fallback, got inline: %+v", item)
		}
		if item.SourceURL == "" || item.DataURL != "" {
			t.Fatalf("fallback item should carry only the source URL: %+v", item)
		}
	}
}

func TestBuildVisionContentCapsImageCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	urls := make([]string, 10)
	for i := range urls {
		urls[i] = srv.URL + "/img.jpg"
	}
	g := visionGuardrails()
	g.MaxImages = 4

	out := BuildVisionContent(context.Background(), testLogger(t), srv.Client(), urls, g)
	if len(out.Items) != 4 {
		t.Fatalf("expected first 4 images only, got %d", len(out.Items))
	}
	if out.Inlined != 4 {
		t.Fatalf("expected all 4 inlined, got %d", out.Inlined)
	}
}

func TestBuildVisionContentEmptyURLs(t *testing.T) {
	out := BuildVisionContent(context.Background(), testLogger(t), http.DefaultClient, nil, visionGuardrails())
	if len(out.Items) != 0 || out.Inlined != 0 || out.Linked != 0 {
		t.Fatalf("expected empty content, got %+v", out)
	}
}

func TestInferContentType(t *testing.T) {
	cases := []struct {
		header string
		url    string
		want   string
	}{
		{"image/png", "http://x/a", "image/png"},
		{"image/webp; charset=binary", "http://x/a", "image/webp"},
		{"application/octet-stream", "http://x/a.png", "image/png"},
		{"", "http://x/a.HEIC?sig=abc", "image/heic"},
		{"text/html", "http://x/a", "image/jpeg"},
	}
	for _, tc := range cases {
		if got := inferContentType(tc.header, tc.url); got != tc.want {
			t.Fatalf("inferContentType(%q, %q) = %q, want %q", tc.header, tc.url, got, tc.want)
		}
	}
}
