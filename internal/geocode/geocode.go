// Package geocode resolves addresses and coordinates against Nominatim and
// maps geocoder address components to an administrative district. Lookups
// are cached in Redis when a client is configured.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fixitnow/fixitnow-server/internal/models"
)

const (
	userAgent = "fixitnow-server/1.0"
	cacheTTL  = 24 * time.Hour
)

// Client talks to a Nominatim instance.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *redis.Client // nil disables caching
	logger  *zap.SugaredLogger
}

// New creates a geocoding client. cache may be nil.
func New(baseURL string, cache *redis.Client, logger *zap.SugaredLogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
		logger:  logger,
	}
}

// nominatimPlace is the subset of the Nominatim response we read.
type nominatimPlace struct {
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}

// Forward resolves a free-text address to coordinates and components.
func (c *Client) Forward(ctx context.Context, address string) (*models.GeoResult, error) {
	key := "geo:fwd:" + strings.ToLower(strings.TrimSpace(address))
	if res := c.cached(ctx, key); res != nil {
		return res, nil
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("addressdetails", "1")
	q.Set("q", address)

	var places []nominatimPlace
	if err := c.get(ctx, c.baseURL+"/search?"+q.Encode(), &places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("no geocoding result for address")
	}

	res, err := placeToResult(places[0])
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, res)
	return res, nil
}

// Reverse resolves coordinates to a display address and components.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (*models.GeoResult, error) {
	key := fmt.Sprintf("geo:rev:%.5f,%.5f", lat, lng)
	if res := c.cached(ctx, key); res != nil {
		return res, nil
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	var place nominatimPlace
	if err := c.get(ctx, c.baseURL+"/reverse?"+q.Encode(), &place); err != nil {
		return nil, err
	}
	if place.DisplayName == "" {
		return nil, fmt.Errorf("no reverse geocoding result")
	}

	res := &models.GeoResult{
		Latitude:    lat,
		Longitude:   lng,
		DisplayName: place.DisplayName,
		District:    DistrictFromComponents(place.Address),
	}
	c.store(ctx, key, res)
	return res, nil
}

func (c *Client) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build geocode request: %w", err)
	}
	// Nominatim usage policy requires an identifying User-Agent
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read geocode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode geocode response: %w", err)
	}
	return nil
}

func (c *Client) cached(ctx context.Context, key string) *models.GeoResult {
	if c.cache == nil {
		return nil
	}
	raw, err := c.cache.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var res models.GeoResult
	if json.Unmarshal([]byte(raw), &res) != nil {
		return nil
	}
	return &res
}

func (c *Client) store(ctx context.Context, key string, res *models.GeoResult) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		c.logger.Debugw("geocode cache write failed", "key", key, "error", err)
	}
}

func placeToResult(p nominatimPlace) (*models.GeoResult, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude in geocode response: %w", err)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude in geocode response: %w", err)
	}
	return &models.GeoResult{
		Latitude:    lat,
		Longitude:   lng,
		DisplayName: p.DisplayName,
		District:    DistrictFromComponents(p.Address),
	}, nil
}

// componentKeys is the preference order for extracting a district from
// Nominatim address components.
var componentKeys = []string{
	"city_district",
	"district",
	"borough",
	"suburb",
	"state_district",
	"county",
	"city",
}

// DistrictFromComponents picks the best district candidate from geocoder
// address components, or "" when none apply.
func DistrictFromComponents(address map[string]string) string {
	for _, key := range componentKeys {
		if v := strings.TrimSpace(address[key]); v != "" {
			return v
		}
	}
	return ""
}

// MatchDistrict matches a free-text address against the configured list of
// known district names, case-insensitively. First match wins.
func MatchDistrict(address string, known []string) (string, bool) {
	lower := strings.ToLower(address)
	for _, d := range known {
		if d == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(d)) {
			return d, true
		}
	}
	return "", false
}
