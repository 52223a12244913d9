// Package snapshot fetches remote images for camera widgets, with an
// optional on-disk cache for sources that rarely change.
package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type Option func(f *Fetcher)

// WithProgress draws a progress bar while downloading; meant for the
// interactive CLI, not the daemon.
func WithProgress() Option {
	return func(f *Fetcher) {
		f.progress = true
	}
}

func WithCacheDir(dir string) Option {
	return func(f *Fetcher) {
		f.fs = afero.NewBasePathFs(afero.NewOsFs(), dir)
	}
}

func WithFs(fs afero.Fs) Option {
	return func(f *Fetcher) {
		f.fs = fs
	}
}

type Fetcher struct {
	cli      *resty.Client
	fs       afero.Fs
	log      *zap.Logger
	progress bool
}

func NewFetcher(logger *zap.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		cli: resty.New().SetDoNotParseResponse(true),
		log: logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get downloads and decodes the image at url, consulting the cache first
// when one is configured.
func (f *Fetcher) Get(ctx context.Context, url string) (image.Image, error) {
	file := cacheName(url)

	if f.fs != nil {
		if bs, err := afero.ReadFile(f.fs, file); err == nil {
			img, _, err2 := image.Decode(bytes.NewReader(bs))
			if err2 == nil {
				return img, nil
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	bs, err := f.download(ctx, url)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if f.fs != nil {
		// a cache fault only costs the next fetch, the frame is still good
		if err := afero.WriteFile(f.fs, file, bs, 0644); err != nil {
			f.log.With(zap.String("url", url), zap.Error(err)).Warn("save cache failed")
		} else {
			f.log.With(zap.String("url", url)).Debug("snapshot cached")
		}
	}

	return img, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.cli.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.RawBody().Close()
	}()

	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("fetch %s: http %d", url, resp.StatusCode())
	}

	var buf bytes.Buffer
	out := io.Writer(&buf)
	if f.progress {
		bar := progressbar.DefaultBytes(resp.RawResponse.ContentLength, fmt.Sprintf("Fetching %s", url))
		out = io.MultiWriter(&buf, bar)
	}

	if _, err := io.Copy(out, resp.RawBody()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cacheName(url string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(url))
	return fmt.Sprintf("%x.img", h.Sum64())
}
