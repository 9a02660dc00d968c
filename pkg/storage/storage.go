// Package storage moves rendered outputs between the local tree and remote
// destinations. Backends are addressed by URI scheme: file://, http(s):// and
// s3://.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
)

// Backend is a single storage scheme.
type Backend interface {
	// Get opens the object at uri for reading.
	Get(ctx context.Context, uri string) (io.ReadCloser, error)

	// Put writes data to uri, replacing any existing object.
	Put(ctx context.Context, uri string, data io.Reader) error

	// Delete removes the object at uri. Deleting a missing object is not
	// an error.
	Delete(ctx context.Context, uri string) error

	// Exists reports whether an object is present at uri.
	Exists(ctx context.Context, uri string) (bool, error)
}

// supportedSchemes is the set of schemes a publish destination may use.
var supportedSchemes = map[string]bool{
	"file":  true,
	"http":  true,
	"https": true,
	"s3":    true,
}

// Supported reports whether scheme has a backend.
func Supported(scheme string) bool {
	return supportedSchemes[scheme]
}

// ParseURI splits a destination URI into scheme and path. For file:// URIs
// the path is the filesystem path; for the remote schemes it is host plus
// path, which for s3:// means "bucket/key".
func ParseURI(uri string) (scheme, path string, err error) {
	if uri == "" {
		return "", "", fmt.Errorf("empty URI")
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("invalid URI %q: %w", uri, err)
	}
	if parsed.Scheme == "" {
		return "", "", fmt.Errorf("URI %q has no scheme", uri)
	}

	if parsed.Scheme == "file" {
		return parsed.Scheme, parsed.Path, nil
	}

	return parsed.Scheme, parsed.Host + parsed.Path, nil
}

// requireScheme parses uri and verifies it carries one of the wanted
// schemes. Each backend guards its entry points with this.
func requireScheme(uri string, want ...string) (string, error) {
	scheme, path, err := ParseURI(uri)
	if err != nil {
		return "", err
	}
	for _, w := range want {
		if scheme == w {
			return path, nil
		}
	}
	return "", fmt.Errorf("scheme %s:// not handled by this backend", scheme)
}
