package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/creativelab/compositor/pkg/storage"
)

// Publisher mirrors rendered outputs to a destination chosen by URI scheme.
type Publisher struct {
	local *storage.Local
	http  *storage.HTTP
	s3    *storage.S3
}

// NewPublisher creates a publisher with all available backends. S3 setup is
// best effort: without AWS credentials the backend stays nil and s3://
// destinations fail at publish time instead of at startup.
func NewPublisher(ctx context.Context) *Publisher {
	p := &Publisher{
		local: storage.NewLocal(),
		http:  storage.NewHTTP(),
	}

	if s3, err := storage.NewS3(ctx); err == nil {
		p.s3 = s3
	}

	return p
}

// Publish copies the file at localPath to prefix, preserving the local
// output layout below the prefix. For example outputs/1x1/a_b.png published
// to s3://bucket/renders lands at s3://bucket/renders/outputs/1x1/a_b.png.
func (p *Publisher) Publish(ctx context.Context, localPath, prefix string) error {
	dest := joinURI(prefix, filepath.ToSlash(localPath))

	backend, err := p.backendFor(dest)
	if err != nil {
		return fmt.Errorf("publish %s: %w", localPath, err)
	}

	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("publish %s: %w", localPath, err)
	}
	defer file.Close()

	if err := backend.Put(ctx, dest, file); err != nil {
		return fmt.Errorf("publish %s to %s: %w", localPath, dest, err)
	}
	return nil
}

func (p *Publisher) backendFor(uri string) (storage.Backend, error) {
	scheme, _, err := storage.ParseURI(uri)
	if err != nil {
		return nil, err
	}

	switch scheme {
	case "file":
		return p.local, nil
	case "http", "https":
		return p.http, nil
	case "s3":
		if p.s3 == nil {
			return nil, fmt.Errorf("S3 backend not initialized, AWS credentials may be missing")
		}
		return p.s3, nil
	default:
		return nil, fmt.Errorf("unsupported destination scheme %s://", scheme)
	}
}

// joinURI appends a slash-separated path to a URI prefix.
func joinURI(prefix, rel string) string {
	rel = strings.TrimPrefix(rel, "./")
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(rel, "/")
}
