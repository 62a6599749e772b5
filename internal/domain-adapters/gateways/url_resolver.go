package gateways

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ochairo/sheetfetch/internal/domain/entities"
)

// Query parameters added to share links
const (
	cacheBustParam = "_t"
	downloadParam  = "download"
)

// OneDriveResolver derives direct-download URLs from OneDrive share links
type OneDriveResolver struct {
	httpClient *http.Client
	now        func() time.Time
}

// ResolverOption configures a OneDriveResolver
type ResolverOption func(*OneDriveResolver)

// WithResolverHTTPClient sets the client used to look up short-link redirects.
// Redirect following is always disabled on the resolver's copy of the client.
func WithResolverHTTPClient(client *http.Client) ResolverOption {
	return func(r *OneDriveResolver) {
		c := *client
		c.CheckRedirect = noFollow
		r.httpClient = &c
	}
}

// WithClock overrides the time source for cache-busting parameters
func WithClock(now func() time.Time) ResolverOption {
	return func(r *OneDriveResolver) {
		r.now = now
	}
}

// NewOneDriveResolver creates a new resolver
func NewOneDriveResolver(opts ...ResolverOption) *OneDriveResolver {
	r := &OneDriveResolver{
		httpClient: &http.Client{
			Timeout:       30 * time.Second,
			CheckRedirect: noFollow,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveDirectURL rewrites shareURL so that a GET returns raw file bytes.
//
//   - 1drv.ms short links are resolved through one redirect, the "redir"
//     path segment becomes "download" and a cache-busting parameter is added.
//   - SharePoint and onedrive.live.com links get download=1 plus cache-busting.
//   - Anything else only gets the cache-busting parameter.
func (r *OneDriveResolver) ResolveDirectURL(ctx context.Context, shareURL string) (string, error) {
	u, err := url.Parse(shareURL)
	if err != nil {
		return "", fmt.Errorf("%w: parse share URL: %v", entities.ErrResolve, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: share URL must be absolute", entities.ErrResolve)
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case host == "1drv.ms":
		resolved, err := r.followShortLink(ctx, shareURL)
		if err != nil {
			return "", err
		}
		replacePathSegment(resolved, "redir", "download")
		setQueryParam(resolved, cacheBustParam, r.timestamp())
		return resolved.String(), nil

	case isSharePointHost(host) || isOneDriveHost(host):
		if u.Query().Get(downloadParam) != "1" {
			setQueryParam(u, downloadParam, "1")
		}
		setQueryParam(u, cacheBustParam, r.timestamp())
		return u.String(), nil

	default:
		setQueryParam(u, cacheBustParam, r.timestamp())
		return u.String(), nil
	}
}

// followShortLink performs a single request and returns the redirect target
func (r *OneDriveResolver) followShortLink(ctx context.Context, shortURL string) (*url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, shortURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", entities.ErrResolve, err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: redirect lookup: %v", entities.ErrResolve, err)
	}
	//nolint:errcheck // Body is never read
	defer resp.Body.Close()

	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: expected redirect, got HTTP %d", entities.ErrResolve, resp.StatusCode)
	}

	location, err := resp.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: redirect without location: %v", entities.ErrResolve, err)
	}
	return location, nil
}

func (r *OneDriveResolver) timestamp() string {
	return strconv.FormatInt(r.now().Unix(), 10)
}

func noFollow(_ *http.Request, _ []*http.Request) error {
	return http.ErrUseLastResponse
}

func isSharePointHost(host string) bool {
	return host == "sharepoint.com" || strings.HasSuffix(host, ".sharepoint.com")
}

func isOneDriveHost(host string) bool {
	return host == "onedrive.live.com" || host == "onedrive.com" || strings.HasSuffix(host, ".onedrive.com")
}

// replacePathSegment swaps whole path segments only, so "/redirect" is left alone
func replacePathSegment(u *url.URL, from, to string) {
	segments := strings.Split(u.Path, "/")
	for i, s := range segments {
		if s == from {
			segments[i] = to
		}
	}
	u.Path = strings.Join(segments, "/")
	u.RawPath = ""
}

// setQueryParam drops every existing pair for key and appends key=value.
// Other pairs keep their original order and encoding.
func setQueryParam(u *url.URL, key, value string) {
	var kept []string
	if u.RawQuery != "" {
		for _, pair := range strings.Split(u.RawQuery, "&") {
			if pair == "" {
				continue
			}
			name := pair
			if i := strings.IndexByte(pair, '='); i >= 0 {
				name = pair[:i]
			}
			if decoded, err := url.QueryUnescape(name); err == nil {
				name = decoded
			}
			if name == key {
				continue
			}
			kept = append(kept, pair)
		}
	}
	kept = append(kept, url.QueryEscape(key)+"="+url.QueryEscape(value))
	u.RawQuery = strings.Join(kept, "&")
}
