package traveltime

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// MaxElementsPerRequest caps origins and destinations per Distance Matrix call.
const MaxElementsPerRequest = 25

const distanceMatrixPath = "/maps/api/distancematrix/json"

// DistanceMatrixOptions configures the Distance Matrix client.
type DistanceMatrixOptions struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration

	// MaxConcurrent bounds parallel chunk requests (default DefaultMaxConcurrentRequests).
	MaxConcurrent int
}

type distanceMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance *struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration *struct {
				Value int `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// DistanceMatrixClient estimates driving time with the Google Distance
// Matrix API. Requests are chunked to MaxElementsPerRequest per side; a chunk
// that still fails after retries, and any element without a route, falls back
// to the Haversine estimate.
type DistanceMatrixClient struct {
	httpClient *resty.Client
	apiKey     string
	limiter    *requestLimiter
	logger     *zap.Logger
}

// NewDistanceMatrixClient creates a Distance Matrix client.
func NewDistanceMatrixClient(opts DistanceMatrixOptions, logger *zap.Logger) *DistanceMatrixClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	retryWait := opts.RetryWait
	if retryWait <= 0 {
		retryWait = time.Second
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(max(opts.MaxRetries, 0)).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(retryWait*8).
		SetHeader("Accept", "application/json").
		AddRetryCondition(isTransient)

	return &DistanceMatrixClient{
		httpClient: client,
		apiKey:     opts.APIKey,
		limiter:    newRequestLimiter(opts.MaxConcurrent),
		logger:     logger,
	}
}

// isTransient retries rate limiting and temporary unavailability.
func isTransient(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	switch resp.StatusCode() {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	}
	return strings.Contains(resp.String(), "OVER_QUERY_LIMIT")
}

type chunk struct {
	oi, di       int
	origins      []Location
	destinations []Location
}

func chunks(origins, destinations []Location) []chunk {
	var out []chunk
	for oi := 0; oi < len(origins); oi += MaxElementsPerRequest {
		for di := 0; di < len(destinations); di += MaxElementsPerRequest {
			out = append(out, chunk{
				oi:           oi,
				di:           di,
				origins:      origins[oi:min(oi+MaxElementsPerRequest, len(origins))],
				destinations: destinations[di:min(di+MaxElementsPerRequest, len(destinations))],
			})
		}
	}
	return out
}

// Estimate implements Estimator. Chunks are fetched in parallel up to the
// configured limit; each writes a disjoint block of the result.
func (c *DistanceMatrixClient) Estimate(ctx context.Context, origins, destinations []Location) ([][]Estimate, error) {
	out := make([][]Estimate, len(origins))
	for i := range out {
		out[i] = make([]Estimate, len(destinations))
	}

	var wg sync.WaitGroup
	for _, ch := range chunks(origins, destinations) {
		if err := c.limiter.Acquire(ctx); err != nil {
			break
		}
		wg.Add(1)
		go func(ch chunk) {
			defer wg.Done()
			defer c.limiter.Release()

			block, err := c.fetch(ctx, ch.origins, ch.destinations)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Warn("Distance Matrix request failed, using Haversine estimate",
					zap.Int("origins", len(ch.origins)),
					zap.Int("destinations", len(ch.destinations)),
					zap.Error(err),
				)
				block = haversineMatrix(ch.origins, ch.destinations)
			}
			for i := range block {
				copy(out[ch.oi+i][ch.di:], block[i])
			}
		}(ch)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DistanceMatrixClient) fetch(ctx context.Context, origins, destinations []Location) ([][]Estimate, error) {
	var result distanceMatrixResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"origins":      joinLatLng(origins),
			"destinations": joinLatLng(destinations),
			"mode":         "driving",
			"language":     "ja",
			"key":          c.apiKey,
		}).
		SetResult(&result).
		Get(distanceMatrixPath)
	if err != nil {
		return nil, errors.Wrap(err, "call distance matrix")
	}
	if resp.IsError() {
		return nil, errors.Errorf("distance matrix: HTTP %d", resp.StatusCode())
	}
	if result.Status != "OK" {
		return nil, errors.Errorf("distance matrix: %s %s", result.Status, result.ErrorMessage)
	}

	out := make([][]Estimate, len(origins))
	fallbacks := 0
	for i, o := range origins {
		out[i] = make([]Estimate, len(destinations))
		for j, d := range destinations {
			if e, ok := elementEstimate(result, i, j); ok {
				out[i][j] = e
				continue
			}
			out[i][j] = haversineEstimate(o, d)
			if o.ID != d.ID {
				fallbacks++
			}
		}
	}
	if fallbacks > 0 {
		c.logger.Debug("Distance Matrix elements without route", zap.Int("count", fallbacks))
	}
	return out, nil
}

func elementEstimate(r distanceMatrixResponse, i, j int) (Estimate, bool) {
	if i >= len(r.Rows) || j >= len(r.Rows[i].Elements) {
		return Estimate{}, false
	}
	el := r.Rows[i].Elements[j]
	if el.Status != "OK" || el.Distance == nil || el.Duration == nil {
		return Estimate{}, false
	}
	return Estimate{
		Minutes:        roundTenth(float64(el.Duration.Value) / 60),
		DistanceMeters: el.Distance.Value,
		Source:         SourceGoogleMaps,
	}, true
}

func joinLatLng(locs []Location) string {
	parts := make([]string, len(locs))
	for i, l := range locs {
		parts[i] = strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
	}
	return strings.Join(parts, "|")
}

