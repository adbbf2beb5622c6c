// Package ansiart converts card images into ANSI half-block art.
package ansiart

import (
	"context"
	"crypto/md5"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// FetchTimeout bounds the download of one remote image
const FetchTimeout = 10 * time.Second

// Renderer turns image references into ANSI art of a fixed cell size,
// caching the result on disk when a cache directory is set.
// It is not safe for concurrent use.
type Renderer struct {
	Width    int
	Height   int
	CacheDir string

	// Client fetches http(s) references; NewRenderer sets one with FetchTimeout
	Client *http.Client
	// Logger reports cache write failures; nil discards them
	Logger *log.Logger

	// in-memory results, including failures, per image reference
	memo map[string]result
}

type result struct {
	art string
	err error
}

// NewRenderer creates a renderer producing width x height character cells
func NewRenderer(width, height int, cacheDir string) *Renderer {
	return &Renderer{
		Width:    width,
		Height:   height,
		CacheDir: cacheDir,
		Client:   &http.Client{Timeout: FetchTimeout},
		memo:     make(map[string]result),
	}
}

// Render returns the ANSI art for the image at ref (a path or http(s) URL).
// Results, failures included, are remembered, so each reference is loaded once.
func (r *Renderer) Render(ref string) (string, error) {
	return r.RenderContext(context.Background(), ref)
}

// RenderContext is Render with a context bounding a remote fetch
func (r *Renderer) RenderContext(ctx context.Context, ref string) (string, error) {
	if r.memo == nil {
		r.memo = make(map[string]result)
	}
	if res, ok := r.memo[ref]; ok {
		return res.art, res.err
	}

	art, err := r.render(ctx, ref)
	r.memo[ref] = result{art: art, err: err}
	return art, err
}

// Preload renders every reference ahead of time so later Render calls are
// answered from memory. It stops early when ctx is done.
func (r *Renderer) Preload(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if ctx.Err() != nil {
			return
		}
		_, _ = r.RenderContext(ctx, ref)
	}
}

func (r *Renderer) render(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("no image")
	}

	var cachePath string
	if r.CacheDir != "" {
		// Create a cache filename based on the image reference and size
		key := fmt.Sprintf("%s@%dx%d", ref, r.Width, r.Height)
		cachePath = filepath.Join(r.CacheDir, fmt.Sprintf("%x.ansi", md5.Sum([]byte(key))))

		if data, err := os.ReadFile(cachePath); err == nil {
			return string(data), nil
		}
	}

	img, err := r.decode(ctx, ref)
	if err != nil {
		return "", err
	}

	art := ImageToAnsi(img, r.Width, r.Height)

	if cachePath != "" {
		if err := writeCache(cachePath, art); err != nil && r.Logger != nil {
			r.Logger.Printf("failed to cache art for %s: %v", ref, err)
		}
	}

	return art, nil
}

func writeCache(path, art string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(art), 0644)
}

// decode opens and decodes an image from a path or URL
func (r *Renderer) decode(ctx context.Context, ref string) (image.Image, error) {
	var src io.ReadCloser

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image: %w", err)
		}

		client := r.Client
		if client == nil {
			client = &http.Client{Timeout: FetchTimeout}
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to fetch image: %s", resp.Status)
		}
		src = resp.Body
	} else {
		file, err := os.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to open image: %w", err)
		}
		src = file
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ImageToAnsi converts an image to width x height cells of 24-bit color
// upper half blocks; each cell covers a 2x2 pixel block of the resized image.
func ImageToAnsi(img image.Image, width, height int) string {
	// Resize image to desired dimensions (doubled for half-block characters)
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var buffer strings.Builder
	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			col1, _ := colorful.MakeColor(colorAt(resized, x, y))
			col2, _ := colorful.MakeColor(colorAt(resized, x+1, y))
			col3, _ := colorful.MakeColor(colorAt(resized, x, y+1))
			col4, _ := colorful.MakeColor(colorAt(resized, x+1, y+1))

			// Top pixels as foreground, bottom pixels as background
			fg := toRGBA(averageColor(col1, col2))
			bg := toRGBA(averageColor(col3, col4))

			fmt.Fprintf(&buffer, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀\x1b[0m",
				fg.R, fg.G, fg.B, bg.R, bg.G, bg.B)
		}
		if y+2 < height*2 {
			buffer.WriteString("\n")
		}
	}

	return buffer.String()
}

// colorAt returns the color at a coordinate, black when out of bounds
func colorAt(img image.Image, x, y int) color.Color {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		return img.At(x, y)
	}
	return color.RGBA{0, 0, 0, 255}
}

func averageColor(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	count := float64(len(colors))
	return colorful.Color{R: r / count, G: g / count, B: b / count}
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// StripAnsi removes ANSI escape sequences from a string
func StripAnsi(s string) string {
	var out strings.Builder
	inEscape := false
	for _, c := range s {
		if inEscape {
			if c == 'm' {
				inEscape = false
			}
		} else if c == '\033' {
			inEscape = true
		} else {
			out.WriteRune(c)
		}
	}
	return out.String()
}

// VisibleWidth is the printed width of s in terminal cells
func VisibleWidth(s string) int {
	return len([]rune(StripAnsi(s)))
}
