package osm

import (
	"context"
	"encoding/json"
	"errors"
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/platform/obs"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type osrmStep struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

type osrmRoute struct {
	Distance float64           `json:"distance"`
	Duration float64           `json:"duration"`
	Geometry domain.LineString `json:"geometry"`
	Legs     []struct {
		Steps []osrmStep `json:"steps"`
	} `json:"legs"`
}

type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

// OSRM implements ports.RouteProvider with the OSRM /route/v1 service.
type OSRM struct {
	transport
	baseURL string
	profile string
	log     logrus.FieldLogger
}

func NewOSRM(baseURL, userAgent string, log logrus.FieldLogger) *OSRM {
	return &OSRM{
		transport: newTransport("osrm", userAgent, 20*time.Second),
		baseURL:   strings.TrimRight(baseURL, "/"),
		profile:   "driving",
		log:       log,
	}
}

// Route requests the full GeoJSON geometry and turn-by-turn steps.
func (o *OSRM) Route(ctx context.Context, waypoints []domain.Coordinates) (_ domain.RoutePath, err error) {
	defer obs.Time(ctx, o.log, "osrm.Route")(&err)

	if len(waypoints) < domain.MinWaypoints {
		return domain.RoutePath{}, fmt.Errorf("route: at least %d waypoints are required", domain.MinWaypoints)
	}

	// OSRM expects lon,lat pairs separated by semicolons.
	coords := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		coords = append(coords, fmt.Sprintf("%.6f,%.6f", w.Lon, w.Lat))
	}
	endpoint := fmt.Sprintf("%s/route/v1/%s/%s", o.baseURL, o.profile, strings.Join(coords, ";"))

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("overview", "full")
		q.Set("geometries", "geojson")
		q.Set("steps", "true")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		// OSRM answers 400 with code NoRoute/InvalidQuery for unroutable input.
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusBadRequest {
			return domain.RoutePath{}, fmt.Errorf("route: %s: %w", he.Body, domain.ErrNotFound)
		}
		return domain.RoutePath{}, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.RoutePath{}, fmt.Errorf("decode route response: %w", err)
	}

	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return domain.RoutePath{}, fmt.Errorf("route: osrm code %q: %w", decoded.Code, domain.ErrNotFound)
	}

	r := decoded.Routes[0]
	path := domain.RoutePath{
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
		Geometry:        r.Geometry,
	}
	for _, leg := range r.Legs {
		for _, s := range leg.Steps {
			path.Steps = append(path.Steps, domain.PathStep{
				Name:            s.Name,
				DistanceMeters:  s.Distance,
				DurationSeconds: s.Duration,
			})
		}
	}

	return path, nil
}
