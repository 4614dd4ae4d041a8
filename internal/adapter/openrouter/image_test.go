package openrouter

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eslsoft/ankigen/internal/entity"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func pngB64() string { return base64.StdEncoding.EncodeToString(pngBytes) }

func imageServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	}))
}

func TestGenerateImage_DataArrayBase64(t *testing.T) {
	body := fmt.Sprintf(`{"data":[{"b64_json":%q}]}`, pngB64())
	srv := imageServer(t, body)
	defer srv.Close()

	got, err := newTestClient(srv.URL).GenerateImage(context.Background(), "a cat")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(got) != string(pngBytes) {
		t.Fatalf("bytes mismatch")
	}
}

func TestGenerateImage_ContentDataURL(t *testing.T) {
	body := chatEnvelope("data:image/png;base64," + pngB64())
	srv := imageServer(t, body)
	defer srv.Close()

	got, err := newTestClient(srv.URL).GenerateImage(context.Background(), "a cat")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(got) != string(pngBytes) {
		t.Fatalf("bytes mismatch")
	}
}

func TestGenerateImage_HostedURL(t *testing.T) {
	fileSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes)
	}))
	defer fileSrv.Close()

	body := fmt.Sprintf(`{"data":[{"url":%q}]}`, fileSrv.URL+"/img.png")
	srv := imageServer(t, body)
	defer srv.Close()

	got, err := newTestClient(srv.URL).GenerateImage(context.Background(), "a cat")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(got) != string(pngBytes) {
		t.Fatalf("bytes mismatch")
	}
}

func TestGenerateImage_ContentPartsList(t *testing.T) {
	body := fmt.Sprintf(`{"choices":[{"message":{"content":[{"type":"image","image_b64":%q}]}}]}`, pngB64())
	srv := imageServer(t, body)
	defer srv.Close()

	got, err := newTestClient(srv.URL).GenerateImage(context.Background(), "a cat")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(got) != string(pngBytes) {
		t.Fatalf("bytes mismatch")
	}
}

func TestGenerateImage_ImagesAttachmentDataURL(t *testing.T) {
	body := fmt.Sprintf(`{"choices":[{"message":{"content":"","images":[{"image_url":{"url":"data:image/png;base64,%s"}}]}}]}`, pngB64())
	srv := imageServer(t, body)
	defer srv.Close()

	got, err := newTestClient(srv.URL).GenerateImage(context.Background(), "a cat")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(got) != string(pngBytes) {
		t.Fatalf("bytes mismatch")
	}
}

func TestGenerateImage_UnrecognizedShapeIsMalformed(t *testing.T) {
	srv := imageServer(t, chatEnvelope("I cannot draw that."))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GenerateImage(context.Background(), "a cat")
	if !errors.Is(err, entity.ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestGenerateImage_TransportError(t *testing.T) {
	srv := imageServer(t, "{}")
	srv.Close()

	_, err := newTestClient(srv.URL).GenerateImage(context.Background(), "a cat")
	if !errors.Is(err, entity.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}
