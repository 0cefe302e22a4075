// Package main provides the entry point for the linkpatrol CLI.
//
// linkpatrol crawls a website looking for broken links. Crawls are durable:
// interrupt a run and start it again under the same name to resume where it
// left off.
//
// Usage:
//
//	linkpatrol crawl <start-url> <name>
//	linkpatrol report <name>
//	linkpatrol export <name> --format csv
//
// See --help for all available options.
package main

// main is the entry point for linkpatrol.
func main() {
	Execute()
}
