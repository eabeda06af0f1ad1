package wds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is the production WDS REST endpoint.
const DefaultBaseURL = "https://www150.statcan.gc.ca/t1/wds/rest"

const envelopeSuccess = "SUCCESS"

// envelope is the {status, object} wrapper WDS puts around every
// response body.
type envelope struct {
	Status string          `json:"status"`
	Object json.RawMessage `json:"object"`
}

func (e envelope) unwrap(out any) error {
	if e.Status != envelopeSuccess {
		return fmt.Errorf("wds returned status %q", e.Status)
	}
	return json.Unmarshal(e.Object, out)
}

// Client talks to the WDS REST API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient returns a client for the given base URL (DefaultBaseURL when
// empty).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding wds request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("building wds request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log().Debug("wds request", "method", method, "path", path)
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("wds %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("wds %s: unexpected HTTP status %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding wds response from %s: %w", path, err)
	}
	return nil
}

// first unwraps the first envelope of an array-wrapped response. POST
// endpoints answer batch requests with one envelope per input.
func first(envs []envelope, out any) error {
	if len(envs) == 0 {
		return fmt.Errorf("wds returned an empty response array")
	}
	return envs[0].unwrap(out)
}

// ChangedSeriesList reports the series updated on the current day.
func (c *Client) ChangedSeriesList(ctx context.Context) ([]ChangedSeries, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/getChangedSeriesList", nil, &env); err != nil {
		return nil, err
	}
	var out []ChangedSeries
	if err := env.unwrap(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// ChangedCubeList reports what changed at the cube level on a given day.
func (c *Client) ChangedCubeList(ctx context.Context, day time.Time) ([]ChangedCube, error) {
	var env envelope
	path := "/getChangedCubeList/" + day.Format("2006-01-02")
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	var out []ChangedCube
	if err := env.unwrap(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// CubeMetadata fetches the metadata for one cube.
func (c *Client) CubeMetadata(ctx context.Context, productID int) (Cube, error) {
	payload := []map[string]int{{"productId": productID}}
	var envs []envelope
	if err := c.do(ctx, http.MethodPost, "/getCubeMetadata", payload, &envs); err != nil {
		return Cube{}, err
	}
	var cube Cube
	if err := first(envs, &cube); err != nil {
		return Cube{}, err
	}
	return cube, nil
}

// SeriesInfoFromCubePidCoord resolves a cube/coordinate pair to its
// series info.
func (c *Client) SeriesInfoFromCubePidCoord(ctx context.Context, productID int, coordinate string) (SeriesInfo, error) {
	payload := []map[string]any{{"productId": productID, "coordinate": coordinate}}
	var envs []envelope
	if err := c.do(ctx, http.MethodPost, "/getSeriesInfoFromCubePidCoord", payload, &envs); err != nil {
		return SeriesInfo{}, err
	}
	var info SeriesInfo
	if err := first(envs, &info); err != nil {
		return SeriesInfo{}, err
	}
	return info, nil
}

// DataFromCubePidCoordAndLatestNPeriods fetches the latest n observations
// for a cube/coordinate pair.
func (c *Client) DataFromCubePidCoordAndLatestNPeriods(ctx context.Context, productID int, coordinate string, n int) (VectorData, error) {
	payload := []map[string]any{{"productId": productID, "coordinate": coordinate, "latestN": n}}
	var envs []envelope
	if err := c.do(ctx, http.MethodPost, "/getDataFromCubePidCoordAndLatestNPeriods", payload, &envs); err != nil {
		return VectorData{}, err
	}
	var data VectorData
	if err := first(envs, &data); err != nil {
		return VectorData{}, err
	}
	return data, nil
}

// DataFromVectorsAndLatestNPeriods fetches the latest n observations for
// a batch of vectors.
func (c *Client) DataFromVectorsAndLatestNPeriods(ctx context.Context, vectorIDs []int, n int) ([]VectorData, error) {
	payload := make([]map[string]any, 0, len(vectorIDs))
	for _, id := range vectorIDs {
		payload = append(payload, map[string]any{"vectorId": id, "latestN": n})
	}
	var envs []envelope
	if err := c.do(ctx, http.MethodPost, "/getDataFromVectorsAndLatestNPeriods", payload, &envs); err != nil {
		return nil, err
	}
	out := make([]VectorData, 0, len(envs))
	for _, env := range envs {
		var data VectorData
		if err := env.unwrap(&data); err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}
