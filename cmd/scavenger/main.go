// Package main provides the entry point for the scavenger CLI.
//
// scavenger continuously pulls images from a screenshot gallery, extracts
// their text with OCR, and flags images containing sensitive content.
//
// Usage:
//
//	scavenger scavenge
//	scavenger scavenge --gallery-base-url https://prnt.sc --extensive-csv
//
// See --help for all available options.
package main

func main() {
	Execute()
}
