// Package auth supplies the bearer credential attached to remote API calls.
// Login and refresh happen elsewhere; providers only read the current token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"
)

// CredentialProvider returns the current bearer token. An empty token means
// unauthenticated and is not an error.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticProvider always returns the same token.
type StaticProvider string

func (p StaticProvider) Token(context.Context) (string, error) {
	return string(p), nil
}

// FileProvider reads the token from a file and re-reads it whenever the file's
// modification time changes, so an external process can rotate it.
type FileProvider struct {
	path string

	mu      sync.Mutex
	modTime time.Time
	token   string
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) Token(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	info, err := os.Stat(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.token, p.modTime = "", time.Time{}
			return "", nil
		}
		return "", fmt.Errorf("stat token file: %w", err)
	}
	if info.ModTime().Equal(p.modTime) {
		return p.token, nil
	}

	raw, err := os.ReadFile(p.path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	p.token = strings.TrimSpace(string(raw))
	p.modTime = info.ModTime()
	return p.token, nil
}

type contextKey string

const tokenContextKey contextKey = "bearer_token"

// WithToken stores the caller's bearer token for ContextProvider.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// ContextProvider forwards the token of the incoming request.
type ContextProvider struct{}

func (ContextProvider) Token(ctx context.Context) (string, error) {
	return TokenFromContext(ctx), nil
}

// Chain asks each provider in turn and returns the first non-empty token.
type Chain []CredentialProvider

func (c Chain) Token(ctx context.Context) (string, error) {
	for _, p := range c {
		token, err := p.Token(ctx)
		if err != nil {
			return "", err
		}
		if token != "" {
			return token, nil
		}
	}
	return "", nil
}
