// Package main provides the jpcorpreg CLI, a one-shot fetcher for Japan's
// Corporate Number registry publications.
package main

func main() {
	Execute()
}
