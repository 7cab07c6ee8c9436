package estimation

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	types "github.com/quotedesk/quotedesk-backend/internal/domain"
	"github.com/quotedesk/quotedesk-backend/internal/platform/logger"
)

// BuildVisionContent fetches up to MaxImages of the quote's image URLs
// and inlines each as a base64 data URL. Fetches run concurrently, each
// under its own timeout and byte cap; any failure (timeout, oversize,
// non-2xx) degrades that one image to a URL reference. The builder
// itself never fails: a broken image becomes a hyperlink the model may
// or may not be able to dereference.
func BuildVisionContent(ctx context.Context, log *logger.Logger, httpClient *http.Client, urls []string, g types.Guardrails) VisionContent {
	maxImages := g.MaxImages
	if maxImages <= 0 {
		maxImages = 6
	}
	if len(urls) > maxImages {
		urls = urls[:maxImages]
	}

	maxBytes := g.MaxImageBytes
	if maxBytes <= 0 {
		maxBytes = 8 << 20
	}
	timeout := time.Duration(g.ImageFetchTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	items := make([]VisionItem, len(urls))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, url := range urls {
		eg.Go(func() error {
			dataURL, err := fetchInlineImage(egCtx, httpClient, url, maxBytes, timeout)
			if err != nil {
				if log != nil {
					log.Warn("image inline fetch failed, falling back to URL reference",
						"url", url, "error", err)
				}
				items[i] = VisionItem{SourceURL: url, Inline: false}
				return nil
			}
			items[i] = VisionItem{SourceURL: url, DataURL: dataURL, Inline: true}
			return nil
		})
	}
	_ = eg.Wait()

	out := VisionContent{Items: items}
	for _, it := range items {
		if it.Inline {
			out.Inlined++
		} else {
			out.Linked++
		}
	}
	return out
}

type fetchError struct{ msg string }

func (e *fetchError) Error() string { return e.msg }

func fetchInlineImage(ctx context.Context, httpClient *http.Client, url string, maxBytes int64, timeout time.Duration) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &fetchError{msg: "unexpected status " + resp.Status}
	}

	// Read one byte past the cap so an oversized body is detected rather
	// than silently clipped.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(body)) > maxBytes {
		return "", &fetchError{msg: "image exceeds byte cap"}
	}

	contentType := inferContentType(resp.Header.Get("Content-Type"), url)
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}

func inferContentType(header, url string) string {
	ct := strings.TrimSpace(strings.Split(header, ";")[0])
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	switch strings.ToLower(path.Ext(strings.Split(url, "?")[0])) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	default:
		return "image/jpeg"
	}
}
