package urlutils

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		wantErr error
	}{
		{
			name:    "valid HTTPS URL",
			rawURL:  "https://github.com/user/repo.git",
			wantErr: nil,
		},
		{
			name:    "valid HTTP URL",
			rawURL:  "http://git.internal/user/repo.git",
			wantErr: nil,
		},
		{
			name:    "valid SCP-style URL",
			rawURL:  "git@gitlab.com:user/repo.git",
			wantErr: nil,
		},
		{
			name:    "valid ssh URL",
			rawURL:  "ssh://git@example.com:2222/repo.git",
			wantErr: nil,
		},
		{
			name:    "ftp rejected",
			rawURL:  "ftp://example.com/repo",
			wantErr: ErrInvalidURL,
		},
		{
			name:    "plain path rejected",
			rawURL:  "/home/user/repo",
			wantErr: ErrInvalidURL,
		},
		{
			name:    "empty string rejected",
			rawURL:  "",
			wantErr: ErrInvalidURL,
		},
		{
			name:    "email-like string rejected",
			rawURL:  "user@example.com",
			wantErr: ErrInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.rawURL)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDetectScheme(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
		want   Scheme
	}{
		{"https", "https://github.com/user/repo.git", SchemeHTTPS},
		{"http", "http://git.internal/user/repo.git", SchemeHTTP},
		{"scp style", "git@gitlab.com:user/repo.git", SchemeSCP},
		{"ssh", "ssh://git@example.com/repo.git", SchemeSSH},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectScheme(tt.rawURL)
			if err != nil {
				t.Fatalf("DetectScheme() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectScheme() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractHost(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		want    string
		wantErr error
	}{
		{
			name:   "HTTPS URL",
			rawURL: "https://github.com/user/repo.git",
			want:   "github.com",
		},
		{
			name:   "HTTP URL with port",
			rawURL: "http://git.internal:8080/user/repo.git",
			want:   "git.internal:8080",
		},
		{
			name:   "SCP-style URL",
			rawURL: "git@gitlab.com:user/repo.git",
			want:   "gitlab.com",
		},
		{
			name:   "ssh URL with user and port",
			rawURL: "ssh://git@example.com:2222/repo.git",
			want:   "example.com",
		},
		{
			name:   "ssh URL without user",
			rawURL: "ssh://example.com/repo.git",
			want:   "example.com",
		},
		{
			name:    "unsupported shape",
			rawURL:  "ftp://example.com/repo",
			wantErr: ErrInvalidURL,
		},
		{
			name:    "HTTPS URL without host",
			rawURL:  "https:///repo.git",
			wantErr: ErrNoHost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractHost(tt.rawURL)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ExtractHost() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ExtractHost() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNeedsCredentials(t *testing.T) {
	tests := []struct {
		scheme Scheme
		want   bool
	}{
		{SchemeHTTPS, true},
		{SchemeHTTP, true},
		{SchemeSCP, false},
		{SchemeSSH, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			if got := NeedsCredentials(tt.scheme); got != tt.want {
				t.Errorf("NeedsCredentials(%v) = %v, want %v", tt.scheme, got, tt.want)
			}
		})
	}
}
