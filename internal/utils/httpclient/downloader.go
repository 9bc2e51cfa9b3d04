package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Downloader 用共享客户端下载文件，实现 interfaces.ImageFetcher
type Downloader struct {
	client *http.Client
}

func NewDownloader(client *http.Client) *Downloader {
	return &Downloader{client: client}
}

func (d *Downloader) Fetch(ctx context.Context, rawURL string, w io.Writer) error {
	body, err := Get(ctx, d.client, rawURL)
	if err != nil {
		return err
	}
	defer body.Close()

	if _, err := io.Copy(w, body); err != nil {
		return fmt.Errorf("读取%s失败: %w", rawURL, err)
	}
	return nil
}
