// Command formflow-lint compile-checks form definition documents and reports
// every configuration violation. Exit status 1 means at least one document is
// broken.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goliatone/go-formflow/pkg/config"
	"github.com/goliatone/go-formflow/pkg/model"
)

type violation struct {
	file    string
	message string
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "\nCompile-check form definition documents (YAML or JSON).\n")
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"examples/cli/feedback_form.yaml"}
	}

	var violations []violation
	for _, path := range paths {
		violations = append(violations, lintFile(path)...)
	}

	if len(violations) == 0 {
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			return violations[i].message < violations[j].message
		}
		return violations[i].file < violations[j].file
	})
	for _, v := range violations {
		fmt.Fprintf(os.Stderr, "%s: %s\n", v.file, v.message)
	}
	os.Exit(1)
}

func lintFile(path string) []violation {
	doc, err := config.Load(path)
	if err != nil {
		return []violation{{file: path, message: err.Error()}}
	}

	if _, err := doc.Definition(); err != nil {
		var cfgErr *model.ConfigError
		if errors.As(err, &cfgErr) {
			out := make([]violation, 0, len(cfgErr.Issues))
			for _, issue := range cfgErr.Issues {
				out = append(out, violation{file: path, message: issue})
			}
			return out
		}
		return []violation{{file: path, message: err.Error()}}
	}
	return nil
}
