package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"

	assess "github.com/transit-analytics/gtfs-assess"
)

func init() {
	// Feeds in the wild drop trailing columns on some rows.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		return r
	})
}

// OpenZip loads a feed from a GTFS zip archive on disk. The feed name
// defaults to the archive's base name.
func OpenZip(path string) (*Feed, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gtfs archive: %w", err)
	}
	return ParseZip(filepath.Base(path), body)
}

// ParseZip loads a feed from an in-memory GTFS zip archive.
func ParseZip(name string, body []byte) (*Feed, error) {
	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("open gtfs archive %s: %w", name, err)
	}

	feed := &Feed{Name: name}
	fileMap := map[string]any{
		"stops.txt":          &feed.Stops,
		"routes.txt":         &feed.Routes,
		"trips.txt":          &feed.Trips,
		"stop_times.txt":     &feed.StopTimes,
		"calendar.txt":       &feed.Calendar,
		"calendar_dates.txt": &feed.CalendarDates,
		"shapes.txt":         &feed.Shapes,
	}

	for _, zipFile := range archive.File {
		destination, wanted := fileMap[strings.ToLower(zipFile.Name)]
		if !wanted {
			log.Debug().Str("feed", name).Str("file", zipFile.Name).Msg("Skipping file")
			continue
		}
		reader, err := zipFile.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in %s: %w", zipFile.Name, name, err)
		}
		err = gocsv.Unmarshal(reader, destination)
		reader.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s in %s: %w", zipFile.Name, name, err)
		}
	}

	for table, rows := range map[string]int{
		"stops":      len(feed.Stops),
		"routes":     len(feed.Routes),
		"trips":      len(feed.Trips),
		"stop_times": len(feed.StopTimes),
	} {
		if rows == 0 {
			return nil, assess.NewStructuralError(name, "required table %s is missing or empty", table)
		}
	}

	log.Info().
		Str("feed", name).
		Int("stops", len(feed.Stops)).
		Int("trips", len(feed.Trips)).
		Int("stop_times", len(feed.StopTimes)).
		Msg("Loaded GTFS feed")
	return feed, nil
}
