// Package config loads gateway configuration from GATEHOUSE_* environment
// variables, applies defaults, and validates the result at startup.
//
// Offline mode (GATEHOUSE_OFFLINE_MODE) is the only switch that bypasses the
// identity provider. It is read once at process start; nothing in a request
// can flip it.
package config
