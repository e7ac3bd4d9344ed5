package engine

import "time"

// Config carries the recognised backoff/timeout options read once at
// engine construction.
type Config struct {
	BackoffBaseSeconds      float64
	BackoffMaxSeconds       float64
	BackoffMaxRetries       int
	ProcessorTimeoutSeconds float64
}

// DefaultConfig matches the recognised configuration defaults.
func DefaultConfig() Config {
	return Config{
		BackoffBaseSeconds:      0.5,
		BackoffMaxSeconds:       30.0,
		BackoffMaxRetries:       2,
		ProcessorTimeoutSeconds: 3.0,
	}
}

func (c Config) processorTimeout() time.Duration {
	return time.Duration(c.ProcessorTimeoutSeconds * float64(time.Second))
}
