package backpack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/spf13/afero"
)

// Mode selects how a target mismatch is handled.
type Mode string

const (
	ModeUpload  Mode = "upload"
	ModeForce   Mode = "uploadforce"
	ModeConfirm Mode = "uploadconfirm"
)

// Confirmer asks whether a mismatched upload should go ahead.
type Confirmer func(addr, msg string) bool

// maxReplySize bounds how much of a device reply is read.
const maxReplySize = 64 << 10

type reply struct {
	Status string `json:"status"`
	Msg    string `json:"msg"`
}

// Uploader sends firmware images to devices over HTTP.
type Uploader struct {
	client  *http.Client
	fs      afero.Fs
	retries int
	delay   time.Duration
	confirm Confirmer
	log     Logger
}

// Logger is an optional logging interface. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithHTTPClient replaces the go-cleanhttp client.
func WithHTTPClient(c *http.Client) Option {
	return func(u *Uploader) {
		if c != nil {
			u.client = c
		}
	}
}

// WithTimeout sets the per request timeout.
func WithTimeout(d time.Duration) Option {
	return func(u *Uploader) {
		if d > 0 {
			u.client.Timeout = d
		}
	}
}

// WithRetries sets how often a transport failure is retried per address.
func WithRetries(n int, delay time.Duration) Option {
	return func(u *Uploader) {
		if n >= 0 {
			u.retries = n
			u.delay = delay
		}
	}
}

// WithFs sets the filesystem payloads are read from.
func WithFs(fs afero.Fs) Option {
	return func(u *Uploader) {
		if fs != nil {
			u.fs = fs
		}
	}
}

// WithConfirmer installs a prompt consulted on mismatch in ModeUpload.
func WithConfirmer(c Confirmer) Option {
	return func(u *Uploader) {
		u.confirm = c
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(u *Uploader) {
		if l != nil {
			u.log = l
		}
	}
}

// New creates an Uploader with a go-cleanhttp client and a 60 second timeout.
func New(opts ...Option) *Uploader {
	client := cleanhttp.DefaultClient()
	client.Timeout = 60 * time.Second

	u := &Uploader{
		client:  client,
		fs:      afero.NewOsFs(),
		retries: 2,
		delay:   time.Second,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload sends payload to the first address that answers.
//
// A device reply (success, mismatch or rejection) ends the search. Transport
// failures are retried and then the next address is tried.
func (u *Uploader) Upload(ctx context.Context, payload string, mode Mode, addrs []string, isSTM bool, params map[string]string) error {
	if len(addrs) == 0 {
		return fmt.Errorf("no upload address")
	}

	body, contentType, size, err := u.form(payload, params)
	if err != nil {
		return err
	}

	endpoint := "update"
	if isSTM {
		endpoint = "upload"
	}

	var lastErr error
	for _, addr := range addrs {
		target := fmt.Sprintf("http://%s/%s", addr, endpoint)
		u.log.Info("uploading", "url", target, "file", payload, "mode", string(mode))

		for attempt := 0; attempt <= u.retries; attempt++ {
			if attempt > 0 {
				if err := sleep(ctx, u.delay); err != nil {
					return err
				}
			}

			err := u.post(ctx, addr, target, body, contentType, size, mode)
			if err == nil {
				u.log.Info("upload complete", "addr", addr)
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if answered(err) {
				return err
			}

			u.log.Debug("upload attempt failed", "addr", addr, "attempt", attempt+1, "error", err)
			lastErr = err
		}
	}

	return fmt.Errorf("upload to %s failed: %w", strings.Join(addrs, ", "), lastErr)
}

func (u *Uploader) form(payload string, params map[string]string) ([]byte, string, int64, error) {
	data, err := afero.ReadFile(u.fs, payload)
	if err != nil {
		return nil, "", 0, fmt.Errorf("read payload: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range params {
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", 0, err
		}
	}
	fw, err := mw.CreateFormFile("data", filepath.Base(payload))
	if err != nil {
		return nil, "", 0, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, "", 0, err
	}
	if err := mw.Close(); err != nil {
		return nil, "", 0, err
	}

	return buf.Bytes(), mw.FormDataContentType(), int64(len(data)), nil
}

func (u *Uploader) post(ctx context.Context, addr, target string, body []byte, contentType string, size int64, mode Mode) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-FileSize", strconv.FormatInt(size, 10))

	r, err := u.do(addr, req)
	if err != nil {
		return err
	}

	switch r.Status {
	case "", "ok":
		return nil
	case "mismatch":
		return u.mismatch(ctx, addr, r.Msg, mode)
	default:
		return &StatusError{Addr: addr, Code: http.StatusOK, Status: r.Status, Msg: r.Msg}
	}
}

func (u *Uploader) mismatch(ctx context.Context, addr, msg string, mode Mode) error {
	u.log.Info("target mismatch", "addr", addr, "msg", msg)

	confirmed := mode == ModeForce || mode == ModeConfirm
	if !confirmed && u.confirm != nil {
		confirmed = u.confirm(addr, msg)
	}
	if !confirmed {
		return &MismatchError{Addr: addr, Msg: msg}
	}

	form := url.Values{"action": {"confirm"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("http://%s/forceupdate", addr), strings.NewReader(form.Encode()))
	if err != nil {
		return &ConfirmError{Addr: addr, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	r, err := u.do(addr, req)
	if err != nil {
		return &ConfirmError{Addr: addr, Err: err}
	}
	if r.Status != "" && r.Status != "ok" {
		return &StatusError{Addr: addr, Code: http.StatusOK, Status: r.Status, Msg: r.Msg}
	}
	return nil
}

// do executes req and decodes the reply. Plain text 200 replies from older
// firmware decode to an empty reply.
func (u *Uploader) do(addr string, req *http.Request) (reply, error) {
	resp, err := u.client.Do(req)
	if err != nil {
		return reply{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
	if err != nil {
		return reply{}, fmt.Errorf("read reply: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return reply{}, &StatusError{Addr: addr, Code: resp.StatusCode, Msg: strings.TrimSpace(string(raw))}
	}

	var r reply
	if err := json.Unmarshal(raw, &r); err != nil {
		u.log.Debug("non json reply", "addr", addr, "body", strings.TrimSpace(string(raw)))
		return reply{}, nil
	}
	return r, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
