// Package config loads doctrans settings from an optional doctrans.yaml
// and DOCTRANS_* environment variables, and validates them against an
// embedded CUE schema.
package config
