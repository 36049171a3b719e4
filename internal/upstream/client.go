package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"fitness-schedule-proxy/internal/config"
	"fitness-schedule-proxy/internal/logger"
)

const (
	classesPath  = "classes/"
	userAgent    = "Fitness-Schedule-Proxy/1.0"
	maxErrorBody = 2000
)

// responseListKeys are the wrapper fields checked, in order, when the
// upstream returns an object instead of a bare array.
var responseListKeys = []string{"data", "classes", "result"}

// ErrUnexpectedShape reports a 2xx upstream response whose body is neither
// an array nor a recognized keyed wrapper around one. It is a local
// validation failure, distinct from Error, because the proxy cannot
// recover from an upstream contract violation.
var ErrUnexpectedShape = errors.New("unexpected response shape from upstream classes endpoint")

// Error describes a failed upstream call: a non-2xx status or a transport
// failure. StatusCode is zero when the request never produced a response.
type Error struct {
	StatusCode int
	Body       string
	URL        string
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream returned status %d for %s", e.StatusCode, e.URL)
	}
	if e.Cause != nil {
		return fmt.Sprintf("upstream request failed for %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("upstream request failed for %s", e.URL)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client issues authenticated calls against the vendor scheduling API.
type Client struct {
	configuration *config.Config
	logger        *logger.Logger
	httpClient    *http.Client
}

// NewClient creates an upstream client with the configured request timeout.
func NewClient(configuration *config.Config, logger *logger.Logger) *Client {
	return &Client{
		configuration: configuration,
		logger:        logger,
		httpClient: &http.Client{
			Timeout: configuration.UpstreamTimeout,
		},
	}
}

// FetchClasses requests the schedule for the given date range and optional
// club id. It returns the flat list of raw records the vendor produced, or
// an *Error for HTTP/transport failures and ErrUnexpectedShape when a 2xx
// body cannot be interpreted.
func (client *Client) FetchClasses(ctx context.Context, startDate, endDate, clubID string) ([]any, error) {
	requestURL := client.buildURL(startDate, endDate, clubID)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream request: %w", err)
	}
	client.setHeaders(request)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, &Error{URL: requestURL, Cause: err}
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &Error{URL: requestURL, Cause: err}
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &Error{
			StatusCode: response.StatusCode,
			Body:       truncate(string(body), maxErrorBody),
			URL:        requestURL,
		}
	}

	return extractList(body)
}

// buildURL joins the configured base URL with the classes endpoint and
// attaches the date range and club id. Each parameter is sent under both
// snake_case and camelCase names because installations disagree on which
// the upstream accepts; keep both variants.
func (client *Client) buildURL(startDate, endDate, clubID string) string {
	base := strings.TrimRight(client.configuration.UpstreamBaseURL, "/")

	params := url.Values{}
	params.Set("start_date", startDate)
	params.Set("end_date", endDate)
	params.Set("startDate", startDate)
	params.Set("endDate", endDate)
	if clubID != "" {
		params.Set("club_id", clubID)
		params.Set("clubId", clubID)
	}

	return base + "/" + classesPath + "?" + params.Encode()
}

// setHeaders attaches authentication to the outbound request. The API key
// goes out under both header casings, and the optional secret/app keys under
// both naming variants, for the same installation-variance reason as the
// query parameters. The vendor headers are written to the header map
// directly: Header.Set would canonicalize "apikey" and "apiKey" to the same
// name and collapse the two variants.
func (client *Client) setHeaders(request *http.Request) {
	cfg := client.configuration

	request.SetBasicAuth(cfg.UpstreamBasicUser, cfg.UpstreamBasicPass)
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", userAgent)

	request.Header["apikey"] = []string{cfg.UpstreamAPIKey}
	request.Header["apiKey"] = []string{cfg.UpstreamAPIKey}

	if cfg.UpstreamSecretKey != "" {
		request.Header["secretkey"] = []string{cfg.UpstreamSecretKey}
		request.Header["secret_key"] = []string{cfg.UpstreamSecretKey}
	}
	if cfg.UpstreamAppKey != "" {
		request.Header["appkey"] = []string{cfg.UpstreamAppKey}
		request.Header["app_key"] = []string{cfg.UpstreamAppKey}
	}
}

// extractList normalizes the decoded body into a flat record list. A bare
// array is returned as-is; an object is searched for the first list-valued
// wrapper key.
func extractList(body []byte) ([]any, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, ErrUnexpectedShape
	}

	switch data := decoded.(type) {
	case []any:
		return data, nil
	case map[string]any:
		for _, key := range responseListKeys {
			if listValue, ok := data[key].([]any); ok {
				return listValue, nil
			}
		}
	}
	return nil, ErrUnexpectedShape
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
