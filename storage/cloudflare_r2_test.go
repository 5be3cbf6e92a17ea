package storage

import (
	"context"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base string
		key  string
		want string
	}{
		{"https://cdn.example.com", "tournaments/1/a.png", "https://cdn.example.com/tournaments/1/a.png"},
		{"https://cdn.example.com/", "/tournaments/1/a.png", "https://cdn.example.com/tournaments/1/a.png"},
		{"https://cdn.example.com/media", "tournaments/1/a.png", "https://cdn.example.com/media/tournaments/1/a.png"},
		{"https://cdn.example.com", "", ""},
	}
	for _, tt := range tests {
		base, err := url.Parse(tt.base)
		require.NoError(t, err)
		assert.Equal(t, tt.want, publicURL(base, tt.key))
	}
}

func TestNewCloudflareR2UploaderValidatesConfig(t *testing.T) {
	ctx := context.Background()

	_, err := NewCloudflareR2Uploader(ctx, CloudflareR2UploaderConfig{AccountID: "acc"}, slog.Default())
	assert.Error(t, err)

	_, err = NewCloudflareR2Uploader(ctx, CloudflareR2UploaderConfig{
		AccountID: "acc", AccessKeyID: "key", SecretAccessKey: "secret", BucketName: "bucket", PublicBaseURL: "not a url",
	}, slog.Default())
	assert.Error(t, err)

	uploader, err := NewCloudflareR2Uploader(ctx, CloudflareR2UploaderConfig{
		AccountID: "acc", AccessKeyID: "key", SecretAccessKey: "secret", BucketName: "bucket", PublicBaseURL: "https://cdn.example.com",
	}, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a/b.png", uploader.GetPublicURL("a/b.png"))
}

func TestObjectKey(t *testing.T) {
	a := ObjectKey("tournaments", 7, ".png")
	b := ObjectKey("/tournaments/", 7, "png")

	assert.Regexp(t, `^tournaments/7/[0-9a-f-]{36}\.png$`, a)
	assert.Regexp(t, `^tournaments/7/[0-9a-f-]{36}\.png$`, b)
	assert.NotEqual(t, a, b)
}
