package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// NominatimGeocoder queries a Nominatim compatible /reverse endpoint.
type NominatimGeocoder struct {
	endpoint string
	client   *http.Client
}

func NewNominatimGeocoder(endpoint string, client *http.Client) *NominatimGeocoder {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &NominatimGeocoder{endpoint: strings.TrimRight(endpoint, "/"), client: client}
}

type nominatimResponse struct {
	Error   string `json:"error"`
	Address struct {
		Road          string `json:"road"`
		HouseNumber   string `json:"house_number"`
		Neighbourhood string `json:"neighbourhood"`
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
	} `json:"address"`
}

func (g *NominatimGeocoder) ReverseGeocode(ctx context.Context, c Coordinates) ([]Place, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Longitude, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "salud-al-paso")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request: status %d", resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	if body.Error != "" {
		return nil, nil
	}

	a := body.Address
	street := strings.TrimSpace(strings.Join([]string{a.Road, a.HouseNumber}, " "))
	if street == "" {
		street = a.Neighbourhood
	}
	city := firstNonEmpty(a.City, a.Town, a.Village)
	if street == "" && city == "" {
		return nil, nil
	}
	return []Place{{Street: street, City: city}}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
