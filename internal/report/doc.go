// Package report renders crawl output for humans and tools.
//
// It contains the live progress renderer used while a crawl runs, the
// end-of-crawl summary table, and exporters for sharing results:
//   - Progress: one colored line per processed URL plus running counters
//   - Summary: status-code breakdown as a terminal table
//   - MarkdownWriter: the same breakdown as GitHub-flavored Markdown
//   - CSVExporter / JSONExporter: full result dumps for tool integration
//
// Writers and exporters take an io.Writer so output can go to stdout,
// a file, or a buffer in tests with the same API.
package report
