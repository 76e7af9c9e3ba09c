package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DefaultRequestTimeout bounds CMS HTTP fetches when no timeout is set.
const DefaultRequestTimeout = 10 * time.Second

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem sets the fs.FS used by SourceKindFS sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(l *Loader) {
		l.fs = files
	}
}

// WithHTTPClient enables URL sources using client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		if client == nil {
			return
		}
		clone := *client
		l.http = &clone
	}
}

// WithRequestTimeout bounds each HTTP fetch.
func WithRequestTimeout(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = timeout
	}
}

// WithHeader adds a header to every HTTP request, typically a CMS token.
func WithHeader(key, value string) LoaderOption {
	return func(l *Loader) {
		if key == "" {
			return
		}
		if l.headers == nil {
			l.headers = make(http.Header)
		}
		l.headers.Set(key, value)
	}
}

// Loader reads raw CMS documents from files, an fs.FS, or HTTP. HTTP access
// is disabled unless WithHTTPClient is given.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
	headers http.Header
}

// NewLoader constructs a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{timeout: DefaultRequestTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load fetches the raw document behind src.
func (l *Loader) Load(ctx context.Context, src Source) ([]byte, error) {
	if src == nil {
		return nil, errors.New("content loader: source is nil")
	}
	switch src.Kind() {
	case SourceKindFile:
		return loadFile(ctx, src.Location())
	case SourceKindFS:
		return loadFromFS(ctx, l.fs, src.Location())
	case SourceKindURL:
		if l.http == nil {
			return nil, errors.New("content loader: http support disabled")
		}
		return l.loadHTTP(ctx, src.Location())
	default:
		return nil, fmt.Errorf("content loader: unsupported source kind %q", src.Kind())
	}
}

func loadFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("content loader: file path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("content loader: fs path is required")
	}
	if files == nil {
		return nil, errors.New("content loader: fs is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(files, name)
}

func (l *Loader) loadHTTP(ctx context.Context, url string) ([]byte, error) {
	reqCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml")
	for key, values := range l.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("content loader: unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}
