package httpclient

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloader_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	logger, _ := test.NewNullLogger()
	d := NewDownloader(NewHTTPClient(5, "", logger))

	var buf bytes.Buffer
	require.NoError(t, d.Fetch(context.Background(), srv.URL+"/a.jpg", &buf))
	assert.Equal(t, "image-bytes", buf.String())

	buf.Reset()
	err := d.Fetch(context.Background(), srv.URL+"/missing.jpg", &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestNewHTTPClient_BadProxyIsIgnored(t *testing.T) {
	logger, hook := test.NewNullLogger()

	client := NewHTTPClient(1, "://bad", logger)
	require.NotNil(t, client)
	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, hook.LastEntry().Message, "代理地址解析失败")
}
