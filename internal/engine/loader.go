package engine

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"sync"
)

// LoadRequests reads a CSV batch file with the header
// value,from_unit,to_unit,domain.
func LoadRequests(path string) ([]Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()
	return ParseRequests(f)
}

// ParseRequests parses batch CSV content. Blank lines are skipped; a malformed
// row fails the whole parse with its 1-based line number.
func ParseRequests(r io.Reader) ([]Request, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}

	// A. Skip header row
	idx := bytes.IndexByte(content, '\n')
	if idx == -1 {
		return nil, nil
	}
	lines := bytes.Split(content[idx+1:], []byte{'\n'})

	// B. Parallel parsing, one chunk of lines per worker
	numWorkers := runtime.NumCPU()
	if numWorkers > len(lines) {
		numWorkers = len(lines)
	}
	chunkSize := (len(lines) + numWorkers - 1) / numWorkers

	parsed := make([]Request, len(lines))
	keep := make([]bool, len(lines))
	errs := make([]error, len(lines))

	var wg sync.WaitGroup
	for start := 0; start < len(lines); start += chunkSize {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				line := bytes.TrimSpace(lines[i])
				if len(line) == 0 {
					continue
				}
				req, err := parseRow(line)
				if err != nil {
					// +2: header plus 1-based numbering
					errs[i] = fmt.Errorf("line %d: %w", i+2, err)
					continue
				}
				parsed[i] = req
				keep[i] = true
			}
		}(start, min(start+chunkSize, len(lines)))
	}
	wg.Wait()

	// C. Merge in file order
	reqs := make([]Request, 0, len(lines))
	for i := range lines {
		if errs[i] != nil {
			return nil, errs[i]
		}
		if keep[i] {
			reqs = append(reqs, parsed[i])
		}
	}
	return reqs, nil
}

func parseRow(line []byte) (Request, error) {
	sep := []byte{','}
	var fields [4][]byte
	rest := line
	for i := 0; i < 3; i++ {
		var found bool
		fields[i], rest, found = bytes.Cut(rest, sep)
		if !found {
			return Request{}, fmt.Errorf("expected 4 fields, got %d", i+1)
		}
	}
	if bytes.IndexByte(rest, ',') != -1 {
		return Request{}, fmt.Errorf("expected 4 fields, got more")
	}
	fields[3] = rest

	value, err := strconv.ParseFloat(string(bytes.TrimSpace(fields[0])), 64)
	if err != nil {
		return Request{}, fmt.Errorf("invalid value %q: %w", fields[0], err)
	}
	return Request{
		Value:  value,
		From:   string(bytes.TrimSpace(fields[1])),
		To:     string(bytes.TrimSpace(fields[2])),
		Domain: Domain(bytes.TrimSpace(fields[3])),
	}, nil
}
