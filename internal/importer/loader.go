package importer

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// maxLineSize bounds a single NDJSON record
const maxLineSize = 1 << 20

// Record is one payload read from a source, with its position for error reports
type Record[I any] struct {
	Source string
	Line   int
	Input  I
}

// Loader reads newline-delimited JSON payloads from local files or http(s)
// URLs. Gzip-compressed sources are detected and decompressed.
type Loader[I any] struct {
	httpClient *http.Client
}

// fileLoadResult holds the result of loading a single source
type fileLoadResult[I any] struct {
	index   int
	records []Record[I]
	err     error
}

// NewLoader creates a loader. A nil http.Client gets a default with a generous timeout.
func NewLoader[I any](hc *http.Client) *Loader[I] {
	if hc == nil {
		hc = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Loader[I]{httpClient: hc}
}

// Load reads every source concurrently and returns the records in source order.
// It fails if any source cannot be read or parsed.
func (l *Loader[I]) Load(ctx context.Context, sources []string) ([]Record[I], error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources provided")
	}

	resultChan := make(chan fileLoadResult[I], len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(index int, source string) {
			defer wg.Done()

			records, err := l.loadSource(ctx, source)
			resultChan <- fileLoadResult[I]{index: index, records: records, err: err}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Collect results maintaining order
	results := make([]fileLoadResult[I], len(sources))
	for result := range resultChan {
		results[result.index] = result
	}

	var records []Record[I]
	for i, result := range results {
		if result.err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", sources[i], result.err)
		}
		records = append(records, result.records...)
	}
	return records, nil
}

func (l *Loader[I]) loadSource(ctx context.Context, source string) ([]Record[I], error) {
	body, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	r, err := decompress(body)
	if err != nil {
		return nil, err
	}
	return parseRecords[I](source, r)
}

// open returns the raw bytes of a source
func (l *Loader[I]) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

var gzipMagic = []byte{0x1f, 0x8b}

// decompress unwraps gzip data and passes anything else through
func decompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if !bytes.Equal(head, gzipMagic) {
		return br, nil
	}

	gzReader, err := gzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	return gzReader, nil
}

// parseRecords decodes one JSON payload per non-blank line
func parseRecords[I any](source string, r io.Reader) ([]Record[I], error) {
	var records []Record[I]

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}

		var in I
		if err := json.Unmarshal(text, &in); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, Record[I]{Source: source, Line: line, Input: in})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return records, nil
}
