package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dermaflow/skinsim/internal/simulate"
	"github.com/dermaflow/skinsim/internal/store"
)

func TestExtractJobIDFromStartPath(t *testing.T) {
	jobID, err := extractJobIDFromStartPath("/v1/simulations/abc123/start")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if jobID != "abc123" {
		t.Fatalf("expected abc123, got %s", jobID)
	}

	if _, err := extractJobIDFromStartPath("/v1/simulations/abc123"); err == nil {
		t.Fatal("expected error for invalid path")
	}
}

func TestHandleFrameCheckAligned(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/frames/check", bytes.NewReader(facePNG(t, 120, 120)))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var check simulate.FrameCheck
	if err := json.NewDecoder(rec.Body).Decode(&check); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !check.Aligned {
		t.Fatal("expected aligned frame")
	}
	if check.Center.X != 60 || check.Center.Y != 60 {
		t.Fatalf("expected center (60,60), got (%d,%d)", check.Center.X, check.Center.Y)
	}
}

func TestHandleFrameCheckRejectsGarbage(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/frames/check", strings.NewReader("not an image"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCreateSimulationRejectsInvalidBody(t *testing.T) {
	srv := testServer(t)

	body := `{"source_type":"local_file","object_key":"x.png","corrections":[{"id":"a","concern":"wrinkles","intensity":0.5}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/simulations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown concern, got %d", rec.Code)
	}
}

func testServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(log.New(io.Discard, "", 0), nil, store.NewMemoryJobStore(), nil, Options{})
}

func facePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 140, B: 110, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
