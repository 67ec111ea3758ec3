package fasta

import (
	"bufio"
	"fmt"
	"os"
)

// CopyRecord writes src as a single-record FASTA file at dst, wrapped at
// src's width, so it can be reopened writable without touching src.
func CopyRecord(dst string, src *Store) error {
	fh, err := os.Create(dst)
	if err != nil {
		return err
	}
	w := bufio.NewWriterSize(fh, 256*1024)
	if err := writeWrapped(w, src); err != nil {
		_ = fh.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := w.Flush(); err != nil {
		_ = fh.Close()
		_ = os.Remove(dst)
		return err
	}
	return fh.Close()
}

func writeWrapped(w *bufio.Writer, src *Store) error {
	if _, err := fmt.Fprintf(w, ">%s\n", src.Name()); err != nil {
		return err
	}
	width := src.Width()
	for off := 0; off < src.Len(); off += width {
		end := off + width
		if end > src.Len() {
			end = src.Len()
		}
		line, err := src.Slice(off, end)
		if err != nil {
			return err
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// RemoveWithIndex deletes path and its .fai side file, ignoring missing files.
func RemoveWithIndex(path string) error {
	var first error
	for _, p := range []string{path, IndexPath(path)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) && first == nil {
			first = err
		}
	}
	return first
}
