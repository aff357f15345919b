package providers

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"hampuff/hampuff/internal/constants"
	"hampuff/hampuff/internal/models/dtos"
)

// PropagationSource is the solar data feed as the classifier sees it: one
// bounded synchronous fetch, no retries.
type PropagationSource interface {
	Fetch(ctx context.Context) (*dtos.PropagationRecord, error)
}

// SolarError represents a solar feed error
type SolarError struct {
	Code    string
	Message string
	Err     error
}

func (e *SolarError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SolarError) Unwrap() error {
	return e.Err
}

const solarUserAgent = "HamPuff/14.074/230926"

const solarCacheKey = "SOLAR_FEED"

// SolarProvider fetches and parses the hamqsl.com solar XML feed.
type SolarProvider struct {
	BaseURL string
	Client  *http.Client

	group singleflight.Group

	// cache is nil unless a TTL was configured; the default is
	// fetch-per-request.
	cache *cache.Cache
	ttl   time.Duration
}

var _ PropagationSource = (*SolarProvider)(nil)

// NewSolarProvider creates a provider for the given feed URL. A cacheTTL of
// zero disables caching.
func NewSolarProvider(baseURL string, timeout time.Duration, cacheTTL time.Duration) *SolarProvider {
	p := &SolarProvider{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
	if cacheTTL > 0 {
		p.cache = cache.New(cacheTTL, 10*time.Minute)
		p.ttl = cacheTTL
	}
	return p
}

// Fetch returns a fresh snapshot of the feed. Concurrent identical fetches
// are collapsed into one upstream request.
func (p *SolarProvider) Fetch(ctx context.Context) (*dtos.PropagationRecord, error) {
	if p.cache != nil {
		if v, found := p.cache.Get(solarCacheKey); found {
			rec := v.(dtos.PropagationRecord)
			return &rec, nil
		}
	}

	v, err, _ := p.group.Do(solarCacheKey, func() (interface{}, error) {
		rec, err := p.fetch(ctx)
		if err != nil {
			return nil, err
		}
		if p.cache != nil {
			p.cache.Set(solarCacheKey, *rec, p.ttl)
		}
		return *rec, nil
	})
	if err != nil {
		return nil, err
	}

	rec := v.(dtos.PropagationRecord)
	return &rec, nil
}

func (p *SolarProvider) fetch(ctx context.Context) (*dtos.PropagationRecord, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", p.BaseURL, nil)
	if err != nil {
		return nil, &SolarError{
			Code:    constants.ErrCodeSourceUnavailable,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("User-Agent", solarUserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, &SolarError{
			Code:    constants.ErrCodeSourceUnavailable,
			Message: constants.GetSolarErrorMessage(constants.ErrCodeSourceUnavailable),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &SolarError{
			Code:    constants.ErrCodeSourceUnavailable,
			Message: fmt.Sprintf("Solar feed returned status %d", resp.StatusCode),
		}
	}

	var feed dtos.SolarFeedResponse
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, &SolarError{
			Code:    constants.ErrCodeSourceMalformed,
			Message: constants.GetSolarErrorMessage(constants.ErrCodeSourceMalformed),
			Err:     err,
		}
	}

	if feed.Data == (dtos.SolarFeedData{}) {
		return nil, &SolarError{
			Code:    constants.ErrCodeSourceMalformed,
			Message: "Solar feed document has no solardata element",
		}
	}

	return recordFromFeed(&feed.Data), nil
}

// recordFromFeed trims the feed's padded text values into a snapshot.
func recordFromFeed(d *dtos.SolarFeedData) *dtos.PropagationRecord {
	return &dtos.PropagationRecord{
		Updated:   strings.TrimSpace(d.Updated),
		SolarFlux: strings.TrimSpace(d.SolarFlux),
		AIndex:    strings.TrimSpace(d.AIndex),
		KIndex:    strings.TrimSpace(d.KIndex),
		Sunspots:  strings.TrimSpace(d.Sunspots),
		MUF:       strings.TrimSpace(d.MUF),
		XRay:      strings.TrimSpace(d.XRay),
		SolarWind: strings.TrimSpace(d.SolarWind),
	}
}
