// Package writers turns batch results into files and report streams.
//
// Design:
//   - Extracted sequences are written atomically (WriteRecord).
//   - Per-operation status lines (TSV or JSONL) stream from a single writer goroutine.
//   - The run summary is TOML (summary.toml).
package writers
