package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

// Client talks to the intake server's upload endpoint.
type Client struct {
	Base string
	HTTP *http.Client
}

func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		Base: strings.TrimRight(base, "/"),
		HTTP: &http.Client{Timeout: timeout},
	}
}

// Submit posts one update as a single multipart request and decodes the
// server's envelope. The envelope is authoritative even on 4xx/5xx; the
// returned error covers transport failures and unreadable bodies only.
func (c *Client) Submit(ctx context.Context, u Update) (Result, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, field := range [][2]string{
		{"officer_id", u.OfficerID},
		{"call_id", u.CallID},
		{"text_update", u.Text},
	} {
		if err := w.WriteField(field[0], field[1]); err != nil {
			return Result{}, fmt.Errorf("encode form: %w", err)
		}
	}
	for _, img := range u.Images {
		part, err := imagePart(w, img.Name, img.MIME)
		if err != nil {
			return Result{}, fmt.Errorf("encode form: %w", err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return Result{}, fmt.Errorf("encode form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return Result{}, fmt.Errorf("encode form: %w", err)
	}

	url := c.Base + "/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Result{}, fmt.Errorf("intake returned %s with no parseable envelope", resp.Status)
	}
	return res, nil
}

// imagePart opens a form part for one image. CreateFormFile would stamp
// application/octet-stream, so the header is built by hand to carry the
// file's real content type.
func imagePart(w *multipart.Writer, name, mime string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="image_files"; filename="%s"`, quoteEscaper.Replace(name)))
	h.Set("Content-Type", mime)
	return w.CreatePart(h)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
