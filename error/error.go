// Package error reports problems located in a grammar source.
package error

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// SpecErrors collects every error found in one grammar source.
type SpecErrors []*SpecError

func (e SpecErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

func (e SpecErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// Sort orders the errors by position. Errors without a position come first, and the
// relative order of errors at the same position is kept.
func (e SpecErrors) Sort() {
	sort.SliceStable(e, func(i, j int) bool {
		if e[i].Row != e[j].Row {
			return e[i].Row < e[j].Row
		}
		return e[i].Col < e[j].Col
	})
}

// SpecError is an error located in a grammar source. Row and Col are 1-based; 0 means
// unknown. When FilePath is set, Error quotes the offending line.
type SpecError struct {
	Cause      error
	Detail     string
	FilePath   string
	SourceName string
	Row        int
	Col        int
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v:", e.SourceName)
	}
	switch {
	case e.Row > 0 && e.Col > 0:
		fmt.Fprintf(&b, "%v:%v:", e.Row, e.Col)
	case e.Row > 0:
		fmt.Fprintf(&b, "%v:", e.Row)
	}
	if b.Len() > 0 {
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}

	if line, ok := readLine(e.FilePath, e.Row); ok {
		fmt.Fprintf(&b, "\n    %v", line)
		if e.Col > 0 {
			fmt.Fprintf(&b, "\n    %v^", caretPadding(line, e.Col))
		}
	}
	return b.String()
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}

// caretPadding keeps tabs so that the caret lines up with column col of line.
func caretPadding(line string, col int) string {
	var b strings.Builder
	for i, r := range []rune(line) {
		if i >= col-1 {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
			continue
		}
		b.WriteRune(' ')
	}
	return b.String()
}

func readLine(filePath string, row int) (string, bool) {
	if filePath == "" || row <= 0 {
		return "", false
	}
	f, err := os.Open(filePath)
	if err != nil {
		return "", false
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for i := 1; s.Scan(); i++ {
		if i == row {
			return s.Text(), true
		}
	}
	return "", false
}
