package source

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/singleflight"

	"github.com/ivlev/quiz2video/internal/compositor"
)

// Loader resolves background references to images already cover-fitted to
// the frame. Results are cached per (reference, size) and shared read-only
// between render workers.
type Loader struct {
	DPI      int
	Client   *http.Client
	CacheDir string

	log   *zap.Logger
	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]image.Image
}

func NewLoader(dpi int, cacheDir string, log *zap.Logger) *Loader {
	if dpi <= 0 {
		dpi = 150
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		DPI:      dpi,
		Client:   http.DefaultClient,
		CacheDir: cacheDir,
		log:      log,
		cache:    make(map[string]image.Image),
	}
}

// Background returns ref scaled to cover w x h. An empty ref yields a nil
// image and no error: the frame simply has no background layer.
func (l *Loader) Background(ctx context.Context, ref string, w, h int) (image.Image, error) {
	if ref == "" {
		return nil, nil
	}
	key := fmt.Sprintf("%s@%dx%d", ref, w, h)

	l.mu.RLock()
	img, ok := l.cache[key]
	l.mu.RUnlock()
	if ok {
		return img, nil
	}

	v, err, _ := l.group.Do(key, func() (interface{}, error) {
		src, err := l.load(ctx, ref)
		if err != nil {
			return nil, err
		}
		fitted := Cover(src, w, h)

		l.mu.Lock()
		l.cache[key] = fitted
		l.mu.Unlock()
		return fitted, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

func (l *Loader) load(ctx context.Context, ref string) (image.Image, error) {
	local := ref
	if compositor.IsRemote(ref) {
		p, err := l.download(ctx, ref)
		if err != nil {
			return nil, err
		}
		defer os.Remove(p)
		local = p
	}

	src, err := Open(local)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	img, err := src.RenderPage(0, l.DPI)
	if err != nil {
		return nil, err
	}
	l.log.Debug("background loaded",
		zap.String("ref", ref),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return img, nil
}

// Open picks a Source by file extension.
func Open(p string) (Source, error) {
	if strings.EqualFold(filepath.Ext(p), ".pdf") {
		return NewFitzPDFSource(p)
	}
	return NewImageSource(p)
}

func (l *Loader) download(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	ext := ""
	if u, err := url.Parse(rawURL); err == nil {
		ext = path.Ext(u.Path)
	}
	f, err := os.CreateTemp(l.CacheDir, "background-*"+ext)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("save %s: %w", rawURL, err)
	}
	return f.Name(), nil
}

// Cover scales src to fill w x h, preserving aspect ratio and cropping the
// overflow around the center.
func Cover(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	b := src.Bounds()
	if b.Empty() || w <= 0 || h <= 0 {
		return dst
	}

	scale := max(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	cropW := int(float64(w) / scale)
	cropH := int(float64(h) / scale)
	x0 := b.Min.X + (b.Dx()-cropW)/2
	y0 := b.Min.Y + (b.Dy()-cropH)/2

	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, image.Rect(x0, y0, x0+cropW, y0+cropH), xdraw.Src, nil)
	return dst
}
