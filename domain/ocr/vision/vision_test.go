package vision

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/soocke/pagewarp-go/domain/ocr"
)

const sampleResponse = `{"responses":[{"fullTextAnnotation":{"pages":[{"width":400,"height":200,"blocks":[{"paragraphs":[{"words":[
 {"boundingBox":{"vertices":[{"x":10,"y":10},{"x":50,"y":10},{"x":50,"y":30},{"x":10,"y":30}]},"symbols":[{"text":"N"},{"text":"o"}]},
 {"boundingBox":{"vertices":[{},{"x":5},{"x":5,"y":5},{"y":5}]},"symbols":[{"text":"x"}]},
 {"boundingBox":{},"symbols":[{"text":"skipped"}]}
]}]}]}]}}]}`

func newTestEngine(url string) *Engine {
	return New(Options{
		Endpoint:    url,
		TokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok", TokenType: "Bearer"}),
	})
}

func TestRecognize_ParsesWords(t *testing.T) {
	var gotAuth string
	var gotReq annotateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotReq)
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer srv.Close()

	page, err := newTestEngine(srv.URL).Recognize(context.Background(), ocr.Input{Image: []byte("png"), Languages: []string{"en"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	if len(gotReq.Requests) != 1 || gotReq.Requests[0].Features[0].Type != "DOCUMENT_TEXT_DETECTION" {
		t.Fatalf("unexpected request: %+v", gotReq)
	}
	if gotReq.Requests[0].Image.Content != "cG5n" {
		t.Fatalf("image not base64 encoded: %q", gotReq.Requests[0].Image.Content)
	}
	if gotReq.Requests[0].ImageContext == nil || gotReq.Requests[0].ImageContext.LanguageHints[0] != "en" {
		t.Fatalf("language hints missing")
	}
	if page.Width != 400 || page.Height != 200 {
		t.Fatalf("page size = %dx%d", page.Width, page.Height)
	}
	if len(page.Words) != 2 {
		t.Fatalf("words = %d, want 2", len(page.Words))
	}
	if page.Words[0].Text != "No" || page.Words[0].Bounds != image.Rect(10, 10, 50, 30) {
		t.Fatalf("first word = %+v", page.Words[0])
	}
	if page.Words[1].Bounds != image.Rect(0, 0, 5, 5) {
		t.Fatalf("omitted zero coordinates not handled: %+v", page.Words[1].Bounds)
	}
}

func TestRecognize_ForbiddenIsAuthenticationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"permission denied"}}`)
	}))
	defer srv.Close()

	_, err := newTestEngine(srv.URL).Recognize(context.Background(), ocr.Input{Image: []byte("x")})
	if !errors.Is(err, ocr.ErrAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("api message missing: %v", err)
	}
}

func TestRecognize_MissingCredentialsEnv(t *testing.T) {
	e := New(Options{Endpoint: "http://127.0.0.1:1"})
	e.getenv = func(string) string { return "" }
	_, err := e.Recognize(context.Background(), ocr.Input{Image: []byte("x")})
	if !errors.Is(err, ocr.ErrAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if !strings.Contains(err.Error(), CredentialsEnv) {
		t.Fatalf("error should name the variable: %v", err)
	}
}

func TestRecognize_ResponseErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"responses":[{"error":{"code":3,"message":"Bad image data."}}]}`)
	}))
	defer srv.Close()

	_, err := newTestEngine(srv.URL).Recognize(context.Background(), ocr.Input{Image: []byte("x")})
	if err == nil || errors.Is(err, ocr.ErrAuthentication) {
		t.Fatalf("expected plain api error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Bad image data.") {
		t.Fatalf("message not surfaced: %v", err)
	}
}

func TestRecognize_ServerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestEngine(srv.URL).Recognize(context.Background(), ocr.Input{Image: []byte("x")})
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected http 500 error, got %v", err)
	}
}

func TestRecognize_EmptyResponsesYieldEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"responses":[{}]}`)
	}))
	defer srv.Close()

	page, err := newTestEngine(srv.URL).Recognize(context.Background(), ocr.Input{Image: []byte("x")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Words) != 0 {
		t.Fatalf("expected no words")
	}
}
