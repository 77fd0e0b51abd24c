// Package main provides the entry point for the docshot CLI.
//
// docshot launches the showcase application, walks through its component
// sections and saves one screenshot per section for the documentation.
//
// Usage:
//
//	docshot
//	docshot --section button
//	docshot --list
//
// See --help for all available options.
package main

// main is the entry point for docshot.
func main() {
	Execute()
}
