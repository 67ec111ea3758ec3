// internal/app/prep.go
package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ava/internal/cli"
	"ava/internal/cliutil"
	"ava/internal/cmdutil"
)

// RenameTables removes name from the file name of every variant table under
// root and returns how many were renamed. A rename that would overwrite an
// existing file is skipped and reported through warn.
func RenameTables(root, name string, warn func(path string, err error)) (int, error) {
	files, err := cliutil.FindFiles(root, nil, tableSuffixes...)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range files {
		base := filepath.Base(p)
		if !strings.Contains(base, name) {
			continue
		}
		dst := filepath.Join(filepath.Dir(p), strings.ReplaceAll(base, name, ""))
		if _, err := os.Stat(dst); err == nil {
			warn(p, fmt.Errorf("%s already exists", dst))
			continue
		}
		if err := os.Rename(p, dst); err != nil {
			warn(p, err)
			continue
		}
		n++
	}
	return n, nil
}

func runPrep(opts cli.PrepOptions, stdout, stderr io.Writer) (int, error) {
	console := cmdutil.NewConsole(stderr, opts.Quiet)
	n, err := RenameTables(opts.Input, opts.Name, func(path string, err error) {
		console.Warnf("%s not renamed: %v", path, err)
	})
	if err != nil {
		return ExitInput, inputError(err)
	}
	_, _ = fmt.Fprintf(stdout, "Renamed %d files\n", n)
	return ExitOK, nil
}
