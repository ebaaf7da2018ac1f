package tesseract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/user/ocrbot/internal/ocr"
)

func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

func renderText(t *testing.T, s string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 80))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 50),
	}
	d.DrawString(s)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNewDefaultsLanguages(t *testing.T) {
	e := New(nil, "")
	if got := strings.Join(e.Languages(), "+"); got != strings.Join(ocr.DefaultLanguages, "+") {
		t.Fatalf("languages = %q", got)
	}
}

func TestWorkerRecognize(t *testing.T) {
	ensureTesseractAvailable(t)

	w, err := New([]string{"eng"}, "").NewWorker(context.Background())
	if err != nil {
		t.Fatalf("NewWorker() error = %v", err)
	}
	defer w.Close()

	for _, word := range []string{"Hello OCR", "Second line"} {
		text, err := w.Recognize(context.Background(), renderText(t, word))
		if err != nil {
			t.Fatalf("Recognize(%q) error = %v", word, err)
		}
		first := strings.ToLower(strings.Fields(word)[0])
		if !strings.Contains(strings.ToLower(text), first) {
			t.Fatalf("unexpected OCR output for %q: %q", word, text)
		}
	}
}

func TestNewWorkerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New([]string{"eng"}, "").NewWorker(ctx); err == nil {
		t.Fatal("expected context error")
	}
}
