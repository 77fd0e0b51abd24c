// Package report renders capture runs for people and tools.
//
// Console prints live progress and the end-of-run summary to a terminal,
// styled with lipgloss. Writers serialize a complete RunReport:
//   - SimpleWriter: plain text
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown for pull requests and docs
package report
