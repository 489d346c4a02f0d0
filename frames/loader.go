package frames

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Loader errors.
var (
	// ErrEmptyFrame is recorded for frames that decode to zero pixels.
	ErrEmptyFrame = errors.New("frames: frame has no pixels")

	// ErrHTTPStatus is wrapped by HTTPLoader for non-200 responses.
	ErrHTTPStatus = errors.New("frames: unexpected HTTP status")
)

// Loader fetches and decodes the frame behind a locator.
//
// Load is called concurrently from the loader pool and must honour ctx:
// closing a Sequence cancels it.
type Loader interface {
	Load(ctx context.Context, locator string) (image.Image, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, locator string) (image.Image, error)

// Load calls f(ctx, locator).
func (f LoaderFunc) Load(ctx context.Context, locator string) (image.Image, error) {
	return f(ctx, locator)
}

// Decode decodes a frame, auto-detecting the format.
// Supported formats: JPEG, PNG, GIF, WebP, BMP, TIFF.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("frames: decode: %w", err)
	}
	return img, nil
}

// cleanLocator turns a URL-style locator into a relative slash path that
// cannot climb out of its root.
func cleanLocator(locator string) string {
	return strings.TrimPrefix(path.Clean("/"+locator), "/")
}

// FileLoader loads frames from a directory. Locators are URL-style paths
// resolved under Root, so "/sequence/a.jpg" reads Root/sequence/a.jpg.
type FileLoader struct {
	Root string
}

// Load implements Loader.
func (l FileLoader) Load(ctx context.Context, locator string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := l.Root
	if root == "" {
		root = "."
	}
	name := filepath.Join(root, filepath.FromSlash(cleanLocator(locator)))

	f, err := os.Open(filepath.Clean(name))
	if err != nil {
		return nil, fmt.Errorf("frames: open %s: %w", locator, err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// FSLoader loads frames from a file system such as an embed.FS.
type FSLoader struct {
	FS fs.FS
}

// Load implements Loader.
func (l FSLoader) Load(ctx context.Context, locator string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := l.FS.Open(cleanLocator(locator))
	if err != nil {
		return nil, fmt.Errorf("frames: open %s: %w", locator, err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// HTTPLoader fetches frames over HTTP. Locators are appended to BaseURL.
// A nil Client uses http.DefaultClient.
type HTTPLoader struct {
	BaseURL string
	Client  *http.Client
}

// Load implements Loader.
func (l HTTPLoader) Load(ctx context.Context, locator string) (image.Image, error) {
	url := strings.TrimSuffix(l.BaseURL, "/") + "/" + cleanLocator(locator)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("frames: request %s: %w", locator, err)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("frames: fetch %s: %w", locator, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s for %s", ErrHTTPStatus, resp.Status, locator)
	}
	return Decode(resp.Body)
}
