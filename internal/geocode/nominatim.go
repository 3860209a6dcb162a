package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/geo"
	"github.com/chargemap/chargemap/backend-go/internal/models"
	"github.com/chargemap/chargemap/backend-go/pkg/http/client"
)

// NominatimClient resolves free text through the OpenStreetMap Nominatim search API
type NominatimClient struct {
	httpClient client.Interface
}

func NewNominatimClient(httpClient client.Interface) *NominatimClient {
	return &NominatimClient{httpClient: httpClient}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search returns the best match for query.
func (n *NominatimClient) Search(ctx context.Context, query string) (*models.Place, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", "1")

	resp, err := n.httpClient.Get(ctx, "/search?"+params.Encode())
	if err != nil {
		return nil, NewProviderError("search request failed", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewProviderError(fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var results []nominatimResult
	if err := json.Unmarshal(resp.Body, &results); err != nil {
		return nil, NewProviderError("decoding search response", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrPlaceNotFound, query)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, NewProviderError("parsing latitude", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, NewProviderError("parsing longitude", err)
	}
	if _, err := geo.NewCoordinate(lat, lon); err != nil {
		return nil, NewProviderError("provider returned invalid coordinates", err)
	}

	log.Debug().Str("query", query).Float64("lat", lat).Float64("lon", lon).Msg("Geocoded query")
	return &models.Place{
		Query:       query,
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: results[0].DisplayName,
	}, nil
}
