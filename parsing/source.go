package parsing

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// LineSource feeds the parser one physical line at a time.
type LineSource interface {
	// NextLine returns the next line without its terminator, or false at end of input.
	NextLine() (string, bool, error)
}

type readerSource struct {
	r    *bufio.Reader
	done bool
}

// NewReaderSource reads lines from r. Both "\n" and "\r\n" terminators are accepted.
func NewReaderSource(r io.Reader) LineSource {
	return &readerSource{r: bufio.NewReader(r)}
}

// NewStringSource reads lines from s.
func NewStringSource(s string) LineSource {
	return NewReaderSource(strings.NewReader(s))
}

func (s *readerSource) NextLine() (string, bool, error) {
	if s.done {
		return "", false, nil
	}

	line, err := s.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", false, err
		}
		s.done = true
		if line == "" {
			return "", false, nil
		}
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true, nil
}
