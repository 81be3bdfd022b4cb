package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFrames(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 64, 48))
		draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{0, 0, 0, 255}}, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(8, 8, 40, 40), &image.Uniform{C: color.RGBA{0, 0, 255, 255}}, image.Point{}, draw.Src)

		f, err := os.Create(filepath.Join(dir, string(rune('a'+i))+".png"))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
	}
	return filepath.Join(dir, "*.png")
}

func TestApp_Version(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	require.NoError(t, app.Run([]string{"colordetect", "--version"}))
	assert.Contains(t, out.String(), "colordetect dev")
	assert.Contains(t, out.String(), "Git commit: unknown")
}

func TestApp_RunStillsToWeb(t *testing.T) {
	pattern := writeFrames(t, 3)

	for _, args := range [][]string{
		{"colordetect", "run"},
		{"colordetect"},
	} {
		args = append(args,
			"--source", "stills",
			"--input", pattern,
			"--display", "web",
			"--web-addr", "127.0.0.1:0",
			"--log-level", "error",
		)
		assert.NoError(t, newApp().RunContext(context.Background(), args), "%v", args)
	}
}

func TestApp_RunInvalidConfig(t *testing.T) {
	err := newApp().Run([]string{"colordetect", "run", "--source", "video", "--log-level", "error"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires --input")
}

func TestApp_RunNoMatchingStills(t *testing.T) {
	err := newApp().Run([]string{
		"colordetect", "run",
		"--source", "stills",
		"--input", filepath.Join(t.TempDir(), "*.png"),
		"--display", "web",
		"--web-addr", "127.0.0.1:0",
		"--log-level", "error",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening frame source")
}

func TestApp_MCPBadLogLevel(t *testing.T) {
	err := newApp().Run([]string{"colordetect", "mcp", "--log-level", "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")
}
