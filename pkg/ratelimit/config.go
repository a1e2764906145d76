package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// EndpointClass groups endpoints that share a rate ceiling
type EndpointClass string

const (
	// ClassRead covers list/read endpoints
	ClassRead EndpointClass = "read"
	// ClassWrite covers mutating endpoints
	ClassWrite EndpointClass = "write"
	// ClassBilling covers billing-sensitive endpoints, read or write
	ClassBilling EndpointClass = "billing"
)

// EndpointRateConfig is the ceiling for one endpoint class
type EndpointRateConfig struct {
	MaxRequests int
	Window      time.Duration
}

// Config maps endpoint classes to their ceilings. Loaded once at startup,
// read-only afterwards.
type Config struct {
	Read    EndpointRateConfig
	Write   EndpointRateConfig
	Billing EndpointRateConfig
}

// DefaultConfig returns the default ceilings. The ordering invariant
// read > write > billing must hold for any replacement configuration.
func DefaultConfig() Config {
	return Config{
		Read:    EndpointRateConfig{MaxRequests: 120, Window: time.Minute},
		Write:   EndpointRateConfig{MaxRequests: 60, Window: time.Minute},
		Billing: EndpointRateConfig{MaxRequests: 30, Window: time.Minute},
	}
}

// ClassifyEndpoint assigns a request to an endpoint class. Billing paths are
// always billing-sensitive regardless of method; otherwise safe methods are
// reads and everything else is a write.
func ClassifyEndpoint(method, path string) EndpointClass {
	if strings.HasPrefix(path, "/billing") || strings.Contains(path, "/billing/") {
		return ClassBilling
	}
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ClassRead
	default:
		return ClassWrite
	}
}

// ForEndpoint returns the ceiling for a request's endpoint class
func (c Config) ForEndpoint(method, path string) EndpointRateConfig {
	return c.ForClass(ClassifyEndpoint(method, path))
}

// ForClass returns the ceiling for an endpoint class
func (c Config) ForClass(class EndpointClass) EndpointRateConfig {
	switch class {
	case ClassBilling:
		return c.Billing
	case ClassWrite:
		return c.Write
	default:
		return c.Read
	}
}
