package interfaces

import (
	"context"
	"io"
)

// ImageFetcher 下载远程图片并写入 w
type ImageFetcher interface {
	Fetch(ctx context.Context, url string, w io.Writer) error
}
