package client

import (
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/YagorVitor/CodeReview/pkg/config"
	"github.com/YagorVitor/CodeReview/pkg/logger"
)

// UserAgent identifies the CLI to the backend.
const UserAgent = "CodeReview-CLI/0.1.0"

// RequestIDHeader carries a per-request id for correlating client and server logs.
const RequestIDHeader = "X-Request-ID"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	mu             sync.Mutex
	httpClient     *resty.Client
	authToken      string
	onUnauthorized func()
)

// Options configures the HTTP client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// MaxRPS caps outbound requests per second. Zero disables the limit.
	MaxRPS float64
}

// OptionsFromConfig reads api.base_url, api.timeout and api.max_rps.
func OptionsFromConfig() Options {
	return Options{
		BaseURL: config.GetString("api.base_url"),
		Timeout: time.Duration(config.GetInt("api.timeout")) * time.Second,
		MaxRPS:  config.GetFloat("api.max_rps"),
	}
}

// Init initializes the HTTP client from configuration
func Init() {
	Configure(OptionsFromConfig())
}

// Configure replaces the HTTP client. The auth token and unauthorized
// handler survive reconfiguration.
func Configure(opts Options) {
	c := resty.New()
	c.SetBaseURL(opts.BaseURL)
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	c.SetHeader("User-Agent", UserAgent)
	c.SetHeader("Accept", "application/json")
	c.SetJSONMarshaler(json.Marshal)
	c.SetJSONUnmarshaler(json.Unmarshal)

	var limiter *rate.Limiter
	if opts.MaxRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.MaxRPS), max(1, int(opts.MaxRPS)))
	}

	c.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if limiter != nil {
			if err := limiter.Wait(req.Context()); err != nil {
				return err
			}
		}
		if req.Header.Get(RequestIDHeader) == "" {
			req.SetHeader(RequestIDHeader, uuid.NewString())
		}
		logger.Debug("HTTP Request", "method", req.Method, "url", req.URL, "request_id", req.Header.Get(RequestIDHeader))
		return nil
	})

	c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response", "status", resp.StatusCode(), "request_id", resp.Request.Header.Get(RequestIDHeader))
		if resp.StatusCode() == 401 {
			handleUnauthorized()
		}
		return nil
	})

	mu.Lock()
	if authToken != "" {
		c.SetAuthToken(authToken)
	}
	httpClient = c
	mu.Unlock()
}

func handleUnauthorized() {
	mu.Lock()
	hadToken := authToken != ""
	fn := onUnauthorized
	mu.Unlock()
	if hadToken && fn != nil {
		fn()
	}
}

// GetClient returns the HTTP client
func GetClient() *resty.Client {
	mu.Lock()
	c := httpClient
	mu.Unlock()
	if c == nil {
		Init()
		mu.Lock()
		c = httpClient
		mu.Unlock()
	}
	return c
}

// SetAuthToken sets the bearer token sent with every request
func SetAuthToken(token string) {
	c := GetClient()
	mu.Lock()
	authToken = token
	c.SetAuthToken(token)
	mu.Unlock()
}

// ClearAuthToken stops sending the bearer token
func ClearAuthToken() {
	c := GetClient()
	mu.Lock()
	authToken = ""
	c.SetAuthToken("")
	c.Header.Del("Authorization")
	mu.Unlock()
}

// HasAuthToken reports whether a token is set.
func HasAuthToken() bool {
	mu.Lock()
	defer mu.Unlock()
	return authToken != ""
}

// SetUnauthorizedHandler installs fn as the handler for 401 responses to
// authenticated requests.
func SetUnauthorizedHandler(fn func()) {
	mu.Lock()
	onUnauthorized = fn
	mu.Unlock()
}
