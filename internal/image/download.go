package imagepkg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/youruser/lordeck/internal/util"
)

// DownloadImage fetches url and decodes it as PNG, JPEG, GIF, BMP or TIFF.
func DownloadImage(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	body, err := util.GetBytes(ctx, client, url)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", url, err)
	}
	return img, nil
}

// downloadWorkers bounds concurrent art downloads.
const downloadWorkers = 4

// DownloadAll fetches every url concurrently. Failed or empty entries come
// back as nil images and are logged; the result lines up with urls.
func DownloadAll(ctx context.Context, client *http.Client, logger *log.Logger, urls []string) []image.Image {
	out := make([]image.Image, len(urls))
	var g errgroup.Group
	g.SetLimit(downloadWorkers)
	for i, u := range urls {
		if u == "" {
			continue
		}
		g.Go(func() error {
			img, err := DownloadImage(ctx, client, u)
			if err != nil {
				if logger != nil {
					logger.Warn("card art download failed", "url", u, "error", err)
				}
				return nil
			}
			out[i] = img
			return nil
		})
	}
	_ = g.Wait()
	return out
}
