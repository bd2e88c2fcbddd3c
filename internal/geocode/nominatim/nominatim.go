package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vbonduro/photofolio/internal/geocode"
)

type Client struct {
	baseURL   string
	userAgent string
	language  string
	client    *http.Client
}

func NewClient(baseURL, userAgent, language string) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		language:  language,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type reverseResponse struct {
	Error   string `json:"error"`
	Address struct {
		City     string `json:"city"`
		Town     string `json:"town"`
		Village  string `json:"village"`
		County   string `json:"county"`
		Province string `json:"province"`
		State    string `json:"state"`
		Country  string `json:"country"`
	} `json:"address"`
}

func (c *Client) Reverse(ctx context.Context, lat, lon float64) (geocode.Address, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return geocode.Address{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return geocode.Address{}, fmt.Errorf("failed to call nominatim: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geocode.Address{}, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return geocode.Address{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if body.Error != "" {
		return geocode.Address{}, fmt.Errorf("%w: %s", geocode.ErrNoAddress, body.Error)
	}

	a := body.Address
	return geocode.Address{
		City:     a.City,
		Town:     a.Town,
		Village:  a.Village,
		County:   a.County,
		Province: a.Province,
		State:    a.State,
		Country:  a.Country,
	}, nil
}
