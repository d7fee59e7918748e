// Package seed bulk-imports code records from gzipped CSV files, either on
// local disk or in S3. It is the bulk counterpart of the admin create
// endpoint: existing codes are never overwritten, malformed rows are skipped.
package seed

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Entry is one row of a seed file: zip_code,availability,message. The
// message may itself contain commas.
type Entry struct {
	ZipCode      string
	Availability string
	Message      string
}

// Loader reads seed entries from a source (a file path or an object key,
// depending on the implementation).
type Loader interface {
	Load(ctx context.Context, source string) ([]Entry, error)
}

// parseEntries reads one entry per line. Blank lines and lines starting
// with '#' are ignored.
func parseEntries(r io.Reader, logger zerolog.Logger) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ",", 3)
		if len(parts) < 2 {
			logger.Warn().Int("line", lineNo).Msg("skipping malformed seed row")
			continue
		}

		entry := Entry{
			ZipCode:      strings.TrimSpace(parts[0]),
			Availability: strings.TrimSpace(parts[1]),
		}
		if len(parts) == 3 {
			entry.Message = strings.TrimSpace(parts[2])
		}

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
