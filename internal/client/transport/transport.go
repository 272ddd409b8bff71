// Package transport performs single multipart HTTP uploads with byte-level
// progress reporting. One call is exactly one attempt: retries, if any,
// belong to the caller.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"

	"github.com/gontarzpawel/photo-pigeon-send/internal/client/models"
)

// FormField is the multipart field name the photo travels under. The server
// handler reads the same field; the older "photo" variant is not supported.
const FormField = "image"

// ProgressFunc receives upload progress as an integer percent in [0,100].
// Values are monotonically non-decreasing. It is an alias so that methods
// taking it still satisfy interfaces declared with a plain func parameter.
type ProgressFunc = func(percent int)

// Sentinel failures. The messages are surfaced to users verbatim, so they
// are written as full sentences.
var (
	ErrAborted = errors.New("Upload was aborted")
	ErrNetwork = errors.New("Network error occurred during upload")
)

// StatusError is a non-2xx HTTP response. Message is either the server's
// JSON "message" field or a synthesized description.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string { return e.Message }

type Uploader struct {
	client *http.Client
}

// New returns an Uploader. No client-level timeout is set: the caller
// bounds each attempt through the request context.
func New() *Uploader {
	return &Uploader{client: &http.Client{}}
}

// Upload streams file to url as a multipart form. onProgress (optional) is
// called as file bytes go out. Returns nil iff the server answered 2xx.
func (u *Uploader) Upload(ctx context.Context, file models.LocalFile, url string, authHeader string, onProgress ProgressFunc) error {
	src, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", file.Path, err)
	}
	defer src.Close()

	counted := &progressReader{r: src, total: file.Size, onProgress: onProgress}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := createFormFile(mw, file)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, counted); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			return ErrAborted
		}
		return ErrNetwork
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	return &StatusError{Code: resp.StatusCode, Message: responseMessage(resp)}
}

// createFormFile is like multipart.Writer.CreateFormFile but carries the
// file's real MIME type instead of application/octet-stream.
func createFormFile(mw *multipart.Writer, file models.LocalFile) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, FormField, escapeQuotes(file.Name)))
	mime := file.MIME
	if mime == "" {
		mime = "application/octet-stream"
	}
	h.Set("Content-Type", mime)
	return mw.CreatePart(h)
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}

// responseMessage extracts a human-readable failure reason from a non-2xx
// response: the JSON "message" field when present, a synthesized string
// otherwise.
func responseMessage(resp *http.Response) string {
	fallback := fmt.Sprintf("Upload failed with status: %d", resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fallback
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.Message == "" {
		return fallback
	}
	return body.Message
}

// progressReader counts bytes passing through and reports whole-percent
// milestones. Reads are sequential, so reported values never decrease.
type progressReader struct {
	r          io.Reader
	total      int64
	sent       int64
	last       int
	onProgress ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.sent += int64(n)

	if p.onProgress != nil && p.total > 0 {
		pct := int(p.sent * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct > p.last {
			p.last = pct
			p.onProgress(pct)
		}
	}

	return n, err
}
