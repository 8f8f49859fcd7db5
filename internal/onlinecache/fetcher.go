package onlinecache

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"saveshelf/internal/fileutil"
	"saveshelf/internal/logging"
	"saveshelf/internal/services"
)

const defaultDownloadTimeout = 30 * time.Second

// HTTPFetcher downloads manifests over HTTP and writes them atomically.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
	Logger    *slog.Logger
}

// NewHTTPFetcher returns a fetcher with its own client and timeout.
func NewHTTPFetcher(timeout time.Duration, logger *slog.Logger) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultDownloadTimeout
	}
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: "saveshelf",
		Logger:    logging.NewComponentLogger(logger, "fetch"),
	}
}

// Fetch implements Fetcher. The destination is only replaced after a complete
// 200 response body has been written.
func (f *HTTPFetcher) Fetch(ctx context.Context, urlPrefix, filename, destPath string) error {
	url := urlPrefix + filename
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return services.Wrap(services.ErrFetchFailed, "fetch", "request", url, err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: defaultDownloadTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrFetchFailed, "fetch", "get", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrFetchFailed, "fetch", "get",
			fmt.Sprintf("%s: unexpected status %d", url, resp.StatusCode), nil)
	}

	written, err := fileutil.WriteAtomic(destPath, resp.Body, 0o644)
	if err != nil {
		return services.Wrap(services.ErrFetchFailed, "fetch", "write", destPath, err)
	}
	if f.Logger != nil {
		f.Logger.Debug("manifest downloaded",
			logging.String("url", url),
			logging.String("path", destPath),
			logging.Int64("bytes", written),
		)
	}
	return nil
}
