package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	out     string
	stderr  string
	err     error
	name    string
	args    []string
	sawFile bool
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.name = name
	s.args = args
	if len(args) > 0 {
		_, statErr := os.Stat(args[0])
		s.sawFile = statErr == nil
	}
	if s.err != nil {
		return nil, []byte(s.stderr), s.err
	}
	return []byte(s.out), nil, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 3))
	img.SetGray(1, 1, color.Gray{Y: 200})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func gifBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}

func newTestEngine(r Runner) *Engine {
	return NewEngine(Config{OEM: 3, PSM: 6, TempDir: os.TempDir()}, slog.Default()).WithRunner(r)
}

func TestRecognizeRunsTesseract(t *testing.T) {
	r := &stubRunner{out: "JAZZ NIGHT\r\n\r\n\r\n\r\nThe  Blue   Room\n-----\n"}
	e := newTestEngine(r)

	res, err := e.Recognize(context.Background(), pngBytes(t))
	require.NoError(t, err)

	assert.Equal(t, "JAZZ NIGHT\n\nThe Blue Room", res.Text)
	assert.Equal(t, "png", res.Format)
	assert.Equal(t, 4, res.Width)
	assert.Equal(t, 3, res.Height)
	assert.Equal(t, "tesseract", r.name)
	assert.True(t, r.sawFile, "staged image exists while tesseract runs")
	assert.Equal(t, []string{"stdout", "-l", "eng", "--oem", "3", "--psm", "6"}, r.args[1:])

	_, statErr := os.Stat(r.args[0])
	assert.True(t, os.IsNotExist(statErr), "staged image removed afterwards")
}

func TestRecognizeConvertsPalettedImages(t *testing.T) {
	r := &stubRunner{out: "poster"}
	res, err := newTestEngine(r).Recognize(context.Background(), gifBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "gif", res.Format)
	assert.Equal(t, "poster", res.Text)
}

func TestRecognizeRejectsMalformedInput(t *testing.T) {
	r := &stubRunner{out: "never"}
	e := newTestEngine(r)

	for _, data := range [][]byte{nil, []byte("definitely not an image")} {
		_, err := e.Recognize(context.Background(), data)
		assert.ErrorIs(t, err, ErrDecode)
	}
	assert.Empty(t, r.name, "engine never invoked")
}

func TestRecognizeEngineFailure(t *testing.T) {
	_, err := newTestEngine(&stubRunner{err: errors.New("exit status 1"), stderr: "boom"}).Recognize(context.Background(), pngBytes(t))
	assert.ErrorIs(t, err, ErrNoText)
	assert.Contains(t, err.Error(), "boom")
}

func TestRecognizeClassifiesEngineFailures(t *testing.T) {
	t.Run("binary missing", func(t *testing.T) {
		r := &stubRunner{err: &exec.Error{Name: "tesseract", Err: exec.ErrNotFound}}
		_, err := newTestEngine(r).Recognize(context.Background(), pngBytes(t))
		assert.ErrorIs(t, err, ErrNoText)
		assert.ErrorIs(t, err, ErrTesseractMissing)
	})

	t.Run("language data missing", func(t *testing.T) {
		r := &stubRunner{
			err:    errors.New("exit status 1"),
			stderr: "Error opening data file /usr/share/tessdata/fra.traineddata\nFailed loading language 'fra'",
		}
		_, err := newTestEngine(r).Recognize(context.Background(), pngBytes(t))
		assert.ErrorIs(t, err, ErrNoText)
		assert.ErrorIs(t, err, ErrLanguageData)
		assert.Contains(t, err.Error(), `"eng"`)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := &stubRunner{err: errors.New("signal: killed")}
		_, err := newTestEngine(r).Recognize(ctx, pngBytes(t))
		assert.ErrorIs(t, err, ErrNoText)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRecognizeEmptyText(t *testing.T) {
	_, err := newTestEngine(&stubRunner{out: " \n\f\n "}).Recognize(context.Background(), pngBytes(t))
	assert.ErrorIs(t, err, ErrNoText)
}

func TestArgsIncludeTessdataDir(t *testing.T) {
	e := NewEngine(Config{Lang: "fra", TessdataDir: "/usr/share/tessdata"}, nil)
	assert.Equal(t, []string{"in.png", "stdout", "-l", "fra", "--tessdata-dir", "/usr/share/tessdata"}, e.tesseract().args("in.png"))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"tabs and spaces", "a\t\tb   c", "a b c"},
		{"blank lines", "a\n\n\n\n\nb", "a\n\nb"},
		{"ruler noise", "top\n=====\nbottom", "top\n\nbottom"},
		{"trailing spaces", "a   \nb ", "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
