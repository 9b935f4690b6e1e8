// Package optimization provides concurrency tuning for busy parks: channel
// buffer sizes and per-connection rate limits, with profiles for normal
// service, load testing, and constrained dev machines.
package optimization

import (
	"time"
)

// Config holds tuned parameters for the hub and its clients.
type Config struct {
	// Channel buffer sizes
	BroadcastChannelBuffer int
	ClientSendBuffer       int

	// Rate limiting
	MinActionInterval time.Duration // Per connection
	MaxClients        int
}

// DefaultConfig returns sensible defaults for production.
func DefaultConfig() *Config {
	return &Config{
		BroadcastChannelBuffer: 256, // Handle event bursts on day settle
		ClientSendBuffer:       64,  // Per WebSocket

		MinActionInterval: 250 * time.Millisecond,
		MaxClients:        200,
	}
}

// StressTestConfig returns aggressive settings for load generators.
func StressTestConfig() *Config {
	return &Config{
		BroadcastChannelBuffer: 1024,
		ClientSendBuffer:       128,

		MinActionInterval: 50 * time.Millisecond,
		MaxClients:        500,
	}
}

// LowResourceConfig returns minimal settings for development.
func LowResourceConfig() *Config {
	return &Config{
		BroadcastChannelBuffer: 32,
		ClientSendBuffer:       8,

		MinActionInterval: 500 * time.Millisecond,
		MaxClients:        20,
	}
}

// Recommendations provides suggestions based on observed metrics.
type Recommendations struct {
	IncreaseBroadcastBuffer bool
	IncreaseClientBuffer    bool
	TightenRateLimit        bool
	Notes                   []string
}

// Analyze examines a metrics snapshot and returns tuning recommendations.
func Analyze(metrics map[string]interface{}) *Recommendations {
	rec := &Recommendations{
		Notes: make([]string, 0),
	}

	if day, ok := metrics["day"].(map[string]interface{}); ok {
		if maxLat, ok := day["max_latency_ms"].(float64); ok && maxLat > 100 {
			rec.IncreaseBroadcastBuffer = true
			rec.Notes = append(rec.Notes, "Day settle latency exceeds 100ms - widen the broadcast buffer")
		}
	}

	if ws, ok := metrics["websocket"].(map[string]interface{}); ok {
		if errors, ok := ws["errors"].(int64); ok && errors > 0 {
			rec.IncreaseClientBuffer = true
			rec.Notes = append(rec.Notes, "WebSocket send errors detected - widen client send buffers")
		}
	}

	if commands, ok := metrics["commands"].(map[string]interface{}); ok {
		processed, pok := commands["processed"].(int64)
		errs, eok := commands["errors"].(int64)
		if pok && eok && processed > 100 && errs*2 > processed {
			rec.TightenRateLimit = true
			rec.Notes = append(rec.Notes, "Over half of commands rejected - slow clients down")
		}
	}

	return rec
}

// ApplyRecommendations modifies config based on recommendations.
func ApplyRecommendations(config *Config, rec *Recommendations) *Config {
	if rec.IncreaseBroadcastBuffer {
		config.BroadcastChannelBuffer *= 2
	}
	if rec.IncreaseClientBuffer {
		config.ClientSendBuffer *= 2
	}
	if rec.TightenRateLimit {
		config.MinActionInterval *= 2
	}
	return config
}
