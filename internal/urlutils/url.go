// Package urlutils provides validation and host extraction for git
// repository URLs. It recognizes the three transport shapes the mirror
// workflow supports: HTTP(S) URLs, SCP-style SSH addresses of the form
// git@host:path, and generic ssh:// URIs.
package urlutils

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidURL indicates that the URL matches none of the supported shapes
	ErrInvalidURL = errors.New("unsupported URL format")

	// ErrNoHost indicates that a host could not be extracted from the URL
	ErrNoHost = errors.New("no host in URL")
)

// Scheme identifies the transport a repository URL uses.
type Scheme string

const (
	SchemeHTTPS Scheme = "https"
	SchemeHTTP  Scheme = "http"
	SchemeSCP   Scheme = "scp" // git@host:path
	SchemeSSH   Scheme = "ssh" // ssh://[user@]host[:port]/path
)

// Validate checks that the URL matches one of the supported shapes.
// Anything else (ftp://, bare paths, empty strings) is rejected.
func Validate(rawURL string) error {
	_, err := DetectScheme(rawURL)
	return err
}

// DetectScheme classifies a repository URL by its transport.
func DetectScheme(rawURL string) (Scheme, error) {
	switch {
	case strings.HasPrefix(rawURL, "https://"):
		return SchemeHTTPS, nil
	case strings.HasPrefix(rawURL, "http://"):
		return SchemeHTTP, nil
	case strings.HasPrefix(rawURL, "ssh://"):
		return SchemeSSH, nil
	case isSCPStyle(rawURL):
		return SchemeSCP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
}

// NeedsCredentials reports whether URLs of the given scheme require
// interactive credential provisioning. SSH transports rely on the
// operator's existing key setup and are never prompted for.
func NeedsCredentials(s Scheme) bool {
	return s == SchemeHTTPS || s == SchemeHTTP
}

// ExtractHost returns the hostname component of a repository URL.
//
// For HTTP(S) URLs the authority up to the first slash is returned. For
// SCP-style addresses the substring between '@' and ':' is returned. For
// ssh:// URIs an optional user@ prefix and :port suffix are stripped.
func ExtractHost(rawURL string) (string, error) {
	scheme, err := DetectScheme(rawURL)
	if err != nil {
		return "", err
	}

	switch scheme {
	case SchemeHTTPS, SchemeHTTP:
		rest := strings.TrimPrefix(rawURL, string(scheme)+"://")
		host := rest
		if i := strings.Index(rest, "/"); i >= 0 {
			host = rest[:i]
		}
		if host == "" {
			return "", fmt.Errorf("%w: %q", ErrNoHost, rawURL)
		}
		return host, nil

	case SchemeSCP:
		at := strings.Index(rawURL, "@")
		colon := strings.Index(rawURL, ":")
		if at < 0 || colon < 0 || colon <= at+1 {
			return "", fmt.Errorf("%w: %q", ErrNoHost, rawURL)
		}
		return rawURL[at+1 : colon], nil

	case SchemeSSH:
		rest := strings.TrimPrefix(rawURL, "ssh://")
		if i := strings.Index(rest, "/"); i >= 0 {
			rest = rest[:i]
		}
		if i := strings.Index(rest, "@"); i >= 0 {
			rest = rest[i+1:]
		}
		if i := strings.Index(rest, ":"); i >= 0 {
			rest = rest[:i]
		}
		if rest == "" {
			return "", fmt.Errorf("%w: %q", ErrNoHost, rawURL)
		}
		return rest, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
}

// isSCPStyle reports whether the URL looks like git@host:path. The check
// requires a user, a host and a colon-separated path, which is enough to
// tell it apart from plain paths that happen to contain '@'.
func isSCPStyle(rawURL string) bool {
	at := strings.Index(rawURL, "@")
	if at <= 0 {
		return false
	}
	colon := strings.Index(rawURL[at:], ":")
	if colon <= 1 {
		return false
	}
	if strings.Contains(rawURL, "://") || strings.ContainsAny(rawURL, " \t") {
		return false
	}
	return true
}
