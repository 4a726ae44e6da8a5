package seo

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"sync"

	_ "golang.org/x/image/webp"

	"github.com/jmylchreest/blockfront/pkg/httpclient"
)

// maxProbeBytes is enough for the header of every supported format.
const maxProbeBytes = 512 << 10

// ImageSize is the pixel size of an image.
type ImageSize struct {
	Width  int
	Height int
}

// ImageProber reads image dimensions for og:image tags. Results, including
// failures, are memoised per URL for the life of the prober.
type ImageProber struct {
	client *httpclient.Client
	logger *slog.Logger

	mu    sync.Mutex
	sizes map[string]*probeResult
}

type probeResult struct {
	once sync.Once
	size ImageSize
	err  error
}

// NewImageProber creates a prober that fetches through client.
func NewImageProber(client *httpclient.Client, logger *slog.Logger) *ImageProber {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageProber{client: client, logger: logger, sizes: make(map[string]*probeResult)}
}

// Probe returns the size of the image at url. Concurrent calls for the same
// URL share one fetch.
func (p *ImageProber) Probe(ctx context.Context, url string) (ImageSize, error) {
	p.mu.Lock()
	r, ok := p.sizes[url]
	if !ok {
		r = &probeResult{}
		p.sizes[url] = r
	}
	p.mu.Unlock()

	r.once.Do(func() {
		r.size, r.err = p.fetch(ctx, url)
		if r.err != nil {
			p.logger.WarnContext(ctx, "image probe failed",
				slog.String("url", url),
				slog.String("error", r.err.Error()),
			)
		}
	})
	return r.size, r.err
}

func (p *ImageProber) fetch(ctx context.Context, url string) (ImageSize, error) {
	resp, err := p.client.Get(ctx, url)
	if err != nil {
		return ImageSize{}, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ImageSize{}, fmt.Errorf("fetching image: status %d", resp.StatusCode)
	}

	cfg, format, err := image.DecodeConfig(io.LimitReader(resp.Body, maxProbeBytes))
	if err != nil {
		return ImageSize{}, fmt.Errorf("decoding image header: %w", err)
	}
	p.logger.DebugContext(ctx, "probed image",
		slog.String("url", url),
		slog.String("format", format),
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
	)
	return ImageSize{Width: cfg.Width, Height: cfg.Height}, nil
}

// Fill sets missing dimensions on img. Probe failures leave img unchanged.
func (p *ImageProber) Fill(ctx context.Context, img *OGImage) {
	if p == nil || img == nil || img.URL == "" || (img.Width > 0 && img.Height > 0) {
		return
	}
	size, err := p.Probe(ctx, img.URL)
	if err != nil {
		return
	}
	img.Width, img.Height = size.Width, size.Height
}
