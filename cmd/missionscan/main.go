// Package main provides the entry point for the missionscan CLI.
//
// missionscan logs in to naruto-arena.site once, then crawls every mission
// session and mission page with a headless browser and writes a JSON
// document of the mission corpus plus a manifest of referenced images.
//
// Usage:
//
//	missionscan login
//	missionscan scan
//
// See --help for all available options.
package main

// main is the entry point for missionscan.
func main() {
	Execute()
}
