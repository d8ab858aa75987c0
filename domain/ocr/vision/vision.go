// Package vision implements ocr.Engine on top of the Google Cloud Vision
// images:annotate REST endpoint using DOCUMENT_TEXT_DETECTION.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/soocke/pagewarp-go/domain/ocr"
)

const (
	// DefaultEndpoint is the public annotate endpoint.
	DefaultEndpoint = "https://vision.googleapis.com/v1/images:annotate"
	// CredentialsEnv names the service account key file variable.
	CredentialsEnv = "GOOGLE_APPLICATION_CREDENTIALS"

	engineName = "vision"
	scope      = "https://www.googleapis.com/auth/cloud-platform"
	maxBody    = 32 << 20
)

// Options configures an Engine. Zero values select production behaviour.
type Options struct {
	Endpoint string
	// TokenSource overrides credential discovery. When nil the engine
	// requires GOOGLE_APPLICATION_CREDENTIALS and loads default credentials.
	TokenSource oauth2.TokenSource
	// HTTPClient supplies the base transport; the oauth2 transport wraps it.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Engine calls Cloud Vision once per Recognize.
type Engine struct {
	endpoint string
	ts       oauth2.TokenSource
	base     *http.Client
	logger   *slog.Logger
	getenv   func(string) string
}

var _ ocr.Engine = (*Engine)(nil)

// New returns an Engine. Credentials are resolved lazily on the first call so
// a missing key file surfaces as an authentication error at OCR time, not at
// startup.
func New(opts Options) *Engine {
	e := &Engine{
		endpoint: opts.Endpoint,
		ts:       opts.TokenSource,
		base:     opts.HTTPClient,
		logger:   opts.Logger,
		getenv:   os.Getenv,
	}
	if strings.TrimSpace(e.endpoint) == "" {
		e.endpoint = DefaultEndpoint
	}
	if e.base == nil {
		e.base = http.DefaultClient
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

func (e *Engine) Name() string { return engineName }

func (e *Engine) tokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if e.ts != nil {
		return e.ts, nil
	}
	if e.getenv(CredentialsEnv) == "" {
		return nil, &ocr.AuthenticationError{Engine: engineName, Err: fmt.Errorf("%s environment variable is not set", CredentialsEnv)}
	}
	creds, err := google.FindDefaultCredentials(ctx, scope)
	if err != nil {
		return nil, &ocr.AuthenticationError{Engine: engineName, Err: err}
	}
	e.ts = creds.TokenSource
	return e.ts, nil
}

// Recognize sends one annotate request and converts the first page of the
// full text annotation into words.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Page, error) {
	if len(in.Image) == 0 {
		return ocr.Page{}, errors.New("vision: empty image")
	}
	ts, err := e.tokenSource(ctx)
	if err != nil {
		return ocr.Page{}, err
	}

	body, err := json.Marshal(newRequest(in))
	if err != nil {
		return ocr.Page{}, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return ocr.Page{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		Transport: &oauth2.Transport{Source: ts, Base: e.base.Transport},
		Timeout:   e.base.Timeout,
	}
	e.logger.Debug("vision request", "endpoint", e.endpoint, "bytes", len(in.Image))
	resp, err := client.Do(req)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return ocr.Page{}, &ocr.AuthenticationError{Engine: engineName, Err: err}
		}
		return ocr.Page{}, fmt.Errorf("vision request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return ocr.Page{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ocr.Page{}, &ocr.AuthenticationError{Engine: engineName, Err: fmt.Errorf("http %d: %s", resp.StatusCode, apiMessage(raw))}
	}
	if resp.StatusCode != http.StatusOK {
		return ocr.Page{}, fmt.Errorf("vision api error: http %d: %s", resp.StatusCode, apiMessage(raw))
	}

	var ar annotateResponse
	if err := json.Unmarshal(raw, &ar); err != nil {
		return ocr.Page{}, fmt.Errorf("decode response: %w", err)
	}
	if len(ar.Responses) == 0 {
		return ocr.Page{}, nil
	}
	r := ar.Responses[0]
	if r.Error != nil && r.Error.Message != "" {
		return ocr.Page{}, fmt.Errorf("vision api error: %s", r.Error.Message)
	}
	page := r.page()
	e.logger.Debug("vision response", "words", len(page.Words), "width", page.Width, "height", page.Height)
	return page, nil
}

func newRequest(in ocr.Input) annotateRequest {
	ar := annotateRequest{Requests: []imageRequest{{
		Image:    imagePayload{Content: base64.StdEncoding.EncodeToString(in.Image)},
		Features: []feature{{Type: "DOCUMENT_TEXT_DETECTION"}},
	}}}
	if len(in.Languages) > 0 {
		ar.Requests[0].ImageContext = &imageContext{LanguageHints: in.Languages}
	}
	return ar
}

func apiMessage(raw []byte) string {
	var env struct {
		Error *status `json:"error"`
	}
	if json.Unmarshal(raw, &env) == nil && env.Error != nil && env.Error.Message != "" {
		return env.Error.Message
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
