/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-logr/logr"
	netutil "k8s.io/apimachinery/pkg/util/net"

	ahkio "github.com/microsoft/ahkdap/pkg/io"
)

// Downloader fetches an adapter package and unpacks it into targetDir.
// targetDir does not exist when Download is called.
type Downloader interface {
	Download(ctx context.Context, url string, targetDir string) error
}

const DefaultDownloadTimeout = 10 * time.Minute

// HTTPDownloader downloads zip packages (.vsix files are zip archives) over HTTP(S).
type HTTPDownloader struct {
	client *http.Client
	log    logr.Logger
}

var _ Downloader = (*HTTPDownloader)(nil)

func NewHTTPDownloader(dialTimeout time.Duration, log logr.Logger) *HTTPDownloader {
	dialer := &net.Dialer{
		Timeout: dialTimeout,
	}
	transport := &http.Transport{
		Proxy:               netutil.NewProxierWithNoProxyCIDR(http.ProxyFromEnvironment),
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: dialTimeout,
	}

	return &HTTPDownloader{
		client: &http.Client{
			Transport: transport,
			Timeout:   DefaultDownloadTimeout,
		},
		log: log,
	}
}

func (d *HTTPDownloader) Download(ctx context.Context, url string, targetDir string) error {
	archive, createErr := os.CreateTemp("", "ahkdap-download-*.zip")
	if createErr != nil {
		return fmt.Errorf("could not create a temporary file for the download: %w", createErr)
	}
	defer func() { _ = os.Remove(archive.Name()) }()

	written, downloadErr := d.fetch(ctx, url, archive)
	closeErr := archive.Close()
	if err := errors.Join(downloadErr, closeErr); err != nil {
		return fmt.Errorf("failed to download '%s': %w", url, err)
	}
	d.log.V(1).Info("Package downloaded", "URL", url, "Bytes", written)

	if extractErr := ahkio.ExtractZip(archive.Name(), targetDir); extractErr != nil {
		return fmt.Errorf("failed to unpack '%s': %w", url, extractErr)
	}

	return nil
}

func (d *HTTPDownloader) fetch(ctx context.Context, url string, dest io.Writer) (int64, error) {
	req, reqCreationErr := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if reqCreationErr != nil {
		return 0, fmt.Errorf("failed to create HTTP request: %w", reqCreationErr)
	}

	resp, respErr := d.client.Do(req)
	if respErr != nil {
		return 0, respErr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("server responded with status code %d", resp.StatusCode)
	}

	return io.Copy(dest, resp.Body)
}
