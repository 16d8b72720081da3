// Package config provides configuration management for the OPCV analytics
// pipeline. Configuration is layered: struct-tag defaults, then an optional
// config.yaml, then OPCV_-prefixed environment variables, validated with
// go-playground/validator struct tags.
//
// The package also owns path resolution: every file the pipeline reads or
// writes lives under the executable directory layout returned by GetPaths.
package config
