package storage

import (
	"errors"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitS3URI(t *testing.T) {
	tests := []struct {
		uri     string
		bucket  string
		key     string
		wantErr bool
	}{
		{"s3://campaign-renders/1x1/hero_badge.png", "campaign-renders", "1x1/hero_badge.png", false},
		{"s3://bucket/key", "bucket", "key", false},
		{"s3://bucket", "", "", true},
		{"s3://bucket/", "", "", true},
		{"file:///tmp/out.png", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, err := splitS3URI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestIsS3NotFound(t *testing.T) {
	notFound := &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
	assert.True(t, isS3NotFound(notFound))

	noSuchKey := &smithy.GenericAPIError{Code: "NoSuchKey", Message: "key missing"}
	assert.True(t, isS3NotFound(noSuchKey))

	denied := &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}
	assert.False(t, isS3NotFound(denied))

	assert.False(t, isS3NotFound(errors.New("plain error")))
}
