// Package config provides configuration structures and utilities for missionscan.
// It defines the crawl target, the on-disk layout of outputs and the browser
// settings, and loads optional overrides from a YAML file.
package config
