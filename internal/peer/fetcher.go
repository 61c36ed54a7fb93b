package peer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/furnet-labs/furnet/internal/apperrors"
	"github.com/furnet-labs/furnet/internal/profile"
)

// MePath is the self-description endpoint every instance serves.
const MePath = "/api/me"

const defaultTimeout = 5 * time.Second

// Canonicalize normalizes a caller-supplied instance URL: whitespace is
// trimmed, a missing scheme defaults to https, and one trailing slash is
// stripped. The result is the base URL all peer requests are built from.
func Canonicalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", apperrors.BadParameter("instance URL cannot be empty", nil)
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	trimmed = strings.TrimSuffix(trimmed, "/")

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", apperrors.BadParameter(fmt.Sprintf("invalid instance URL %q", raw), err)
	}
	if parsed.Host == "" {
		return "", apperrors.BadParameter(fmt.Sprintf("instance URL %q has no host", raw), nil)
	}

	return trimmed, nil
}

// Hostname returns the hostname portion of a canonical URL, with scheme,
// port and path discarded. This is what friend records store as dns_name.
func Hostname(canonical string) (string, error) {
	parsed, err := url.Parse(canonical)
	if err != nil {
		return "", apperrors.BadParameter(fmt.Sprintf("invalid instance URL %q", canonical), err)
	}
	return parsed.Hostname(), nil
}

// Fetcher retrieves animal profiles from remote instances.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with the given per-request timeout.
// A non-positive timeout falls back to 5 seconds.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch canonicalizes rawURL and retrieves the peer's profile from its
// /api/me endpoint. It does not retry; the caller decides whether to.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (profile.AnimalProfile, error) {
	canonical, err := Canonicalize(rawURL)
	if err != nil {
		return profile.AnimalProfile{}, err
	}

	return f.FetchCanonical(ctx, canonical)
}

// FetchCanonical retrieves the peer's profile from an already canonical
// base URL.
func (f *Fetcher) FetchCanonical(ctx context.Context, canonical string) (profile.AnimalProfile, error) {
	target := canonical + MePath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return profile.AnimalProfile{}, apperrors.PeerUnreachable(
			fmt.Sprintf("failed to build request for %s", target), err)
	}

	res, err := f.client.Do(req)
	if err != nil {
		return profile.AnimalProfile{}, apperrors.PeerUnreachable(
			fmt.Sprintf("failed to reach %s", target), err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return profile.AnimalProfile{}, apperrors.PeerUnreachable(
			fmt.Sprintf("%s returned status %d", target, res.StatusCode), nil)
	}

	var p profile.AnimalProfile
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		return profile.AnimalProfile{}, apperrors.PeerMalformed(
			fmt.Sprintf("%s returned an invalid profile body", target), err)
	}
	if p.ID == "" {
		return profile.AnimalProfile{}, apperrors.PeerMalformed(
			fmt.Sprintf("%s returned a profile without an id", target), nil)
	}

	return p, nil
}
