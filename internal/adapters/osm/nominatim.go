package osm

import (
	"context"
	"encoding/json"
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/platform/obs"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Nominatim implements ports.Geocoder against an OpenStreetMap Nominatim
// instance. The public instance allows one request per second, which the
// limiter enforces across all callers.
type Nominatim struct {
	transport
	baseURL string
	limiter *rate.Limiter
	log     logrus.FieldLogger
}

func NewNominatim(baseURL, userAgent string, log logrus.FieldLogger) *Nominatim {
	return &Nominatim{
		transport: newTransport("nominatim", userAgent, 10*time.Second),
		baseURL:   strings.TrimRight(baseURL, "/"),
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		log:       log,
	}
}

// SetRateLimit replaces the outbound limiter; self-hosted instances allow more.
func (n *Nominatim) SetRateLimit(every time.Duration, burst int) {
	n.limiter = rate.NewLimiter(rate.Every(every), burst)
}

// Geocode resolves address with /search?format=json&limit=1.
func (n *Nominatim) Geocode(ctx context.Context, address string) (_ domain.GeocodeResult, err error) {
	defer obs.Time(ctx, n.log, "nominatim.Geocode")(&err)

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.GeocodeResult{}, fmt.Errorf("geocode: address must be non-empty")
	}

	endpoint := n.baseURL + "/search"
	resp, err := n.doWithRetry(ctx, func() (*http.Request, error) {
		if err := n.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := n.newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("q", address)
		q.Set("format", "json")
		q.Set("limit", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("geocode %q: decode response: %w", address, err)
	}

	if len(places) == 0 {
		return domain.GeocodeResult{}, fmt.Errorf("geocode %q: %w", address, domain.ErrNotFound)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("geocode %q: invalid lat %q", address, places[0].Lat)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("geocode %q: invalid lon %q", address, places[0].Lon)
	}

	return domain.GeocodeResult{
		Coordinates: domain.Coordinates{Lat: lat, Lon: lon},
		DisplayName: places[0].DisplayName,
	}, nil
}
