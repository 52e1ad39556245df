package workflow

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	"github.com/nvxlabs/mediaplan/internal/config"
)

// HTTPRefresher notifies an external media-library server (plex/sickrage)
// over its refresh webhook, grounded on spec §6's Refreshers{plex|sickrage}
// schema. No pack repo shows a richer HTTP client specifically for
// fire-and-forget webhooks, so stdlib net/http carries the request itself;
// the retry loop around it is github.com/cenkalti/backoff/v4, grounded on
// the catalyst-api pipeline-coordinator's backoff.Retry usage.
type HTTPRefresher struct {
	RefresherName string
	Client        *http.Client
	Cfg           config.RefresherConfig
	MaxRetries    uint64
}

// NewHTTPRefresher returns a refresher for name using cfg, with the default
// client and a bounded budget of 3 retries (up to 4 attempts).
func NewHTTPRefresher(name string, cfg config.RefresherConfig) *HTTPRefresher {
	return &HTTPRefresher{
		RefresherName: name,
		Client:        http.DefaultClient,
		Cfg:           cfg,
		MaxRetries:    3,
	}
}

func (r *HTTPRefresher) Name() string { return r.RefresherName }

// Refresh fires the configured webhook, retrying transient failures with a
// bounded exponential backoff (at most 3 retries per refresh).
func (r *HTTPRefresher) Refresh(ctx context.Context) error {
	if !r.Cfg.Refresh {
		return nil
	}

	url := r.url()
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), r.MaxRetries), ctx)

	return backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := r.Client.Do(req)
		if err != nil {
			return err // retryable: network error
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("refresher %s: server error %d", r.RefresherName, resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("refresher %s: client error %d", r.RefresherName, resp.StatusCode))
		}
		return nil
	}, b)
}

func (r *HTTPRefresher) url() string {
	scheme := "http"
	if r.Cfg.SSL {
		scheme = "https"
	}
	cred := r.Cfg.Token
	if cred == "" {
		cred = r.Cfg.APIKey
	}
	switch r.RefresherName {
	case "plex":
		return fmt.Sprintf("%s://%s:%d%s/library/sections/all/refresh?X-Plex-Token=%s", scheme, r.Cfg.Host, r.Cfg.Port, r.Cfg.Webroot, cred)
	default: // sickrage and any other webhook-compatible server
		return fmt.Sprintf("%s://%s:%d%s/api/%s/?cmd=postprocess", scheme, r.Cfg.Host, r.Cfg.Port, r.Cfg.Webroot, cred)
	}
}
