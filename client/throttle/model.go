package throttle

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

// Config defines the throttler's
// Requests Per Second and Burst Rate
type Config struct {
	RPS   int `yaml:"rps"`
	Burst int `yaml:"burst"`
}

// throttle is an http.RoundTripper, using the time/rate token
// bucket limiter to restrict outbound calls to the image service.
type throttle struct {
	limiter *rate.Limiter
	cfg     Config
	next    http.RoundTripper
	logFn   func() *slog.Logger
}
