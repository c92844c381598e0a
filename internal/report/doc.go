// Package report writes the results of a crawl.
//
// This package contains writers for different output formats:
//   - JSONWriter: The mission document consumed by the front end, and the
//     image manifest
//   - MarkdownWriter: A browsable summary of sessions and missions
//   - SimpleWriter: A short human-readable summary for the terminal
//
// Writers implement the Writer interface and take a *model.Document. File
// handling lives in WriteFile and EnsureDirs so writers only deal with an
// io.Writer.
package report
