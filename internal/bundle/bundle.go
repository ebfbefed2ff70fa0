// Package bundle zips a decoded map together with its summary and a
// manifest entry into a single .ogzb archive, for handing decode output
// off to another tool (map viewer, CI artifact, bug report).
package bundle

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/ernie/ogzdecode/internal/cache"
)

// entrySummary, entryManifest name the two well-known files inside a .ogzb
// bundle alongside the original map under entryMapFile.
const (
	entryMapFile  = "map.ogz"
	entrySummary  = "summary.json"
	entryManifest = "manifest.json"
)

// BuildMapBundle zips ogzPath, its decode Summary, and a MapEntry into
// a single .ogzb archive at outputPath.
func BuildMapBundle(ogzPath string, summary cache.Summary, entry cache.MapEntry, outputPath string) error {
	mapData, err := os.ReadFile(ogzPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", ogzPath, err)
	}

	summaryJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	entryJSON, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest entry: %w", err)
	}

	files := map[string][]byte{
		entryMapFile:  mapData,
		entrySummary:  summaryJSON,
		entryManifest: entryJSON,
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer f.Close()

	if err := writeZip(f, files); err != nil {
		return fmt.Errorf("write bundle %s: %w", outputPath, err)
	}
	return nil
}

// writeZip writes files to w as a Deflate-compressed zip, with
// deterministically sorted entry order.
func writeZip(w io.Writer, files map[string][]byte) error {
	zw := zip.NewWriter(w)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		header := &zip.FileHeader{
			Name:   name,
			Method: zip.Deflate,
		}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("create entry %s: %w", name, err)
		}
		if _, err := fw.Write(files[name]); err != nil {
			return fmt.Errorf("write entry %s: %w", name, err)
		}
	}

	return zw.Close()
}

// ReadMapBundle extracts the map bytes, summary, and manifest entry
// from a .ogzb archive.
func ReadMapBundle(bundlePath string) ([]byte, cache.Summary, cache.MapEntry, error) {
	r, err := zip.OpenReader(bundlePath)
	if err != nil {
		return nil, cache.Summary{}, cache.MapEntry{}, fmt.Errorf("open bundle %s: %w", bundlePath, err)
	}
	defer r.Close()

	var mapData, summaryData, entryData []byte
	for _, f := range r.File {
		switch filepath.Base(f.Name) {
		case entryMapFile:
			mapData, err = readZipEntry(f)
		case entrySummary:
			summaryData, err = readZipEntry(f)
		case entryManifest:
			entryData, err = readZipEntry(f)
		}
		if err != nil {
			return nil, cache.Summary{}, cache.MapEntry{}, fmt.Errorf("read %s in %s: %w", f.Name, bundlePath, err)
		}
	}

	if mapData == nil {
		return nil, cache.Summary{}, cache.MapEntry{}, fmt.Errorf("%s: missing %s", bundlePath, entryMapFile)
	}

	var summary cache.Summary
	if summaryData != nil {
		if err := json.Unmarshal(summaryData, &summary); err != nil {
			return nil, cache.Summary{}, cache.MapEntry{}, fmt.Errorf("unmarshal summary in %s: %w", bundlePath, err)
		}
	}

	var entry cache.MapEntry
	if entryData != nil {
		if err := json.Unmarshal(entryData, &entry); err != nil {
			return nil, cache.Summary{}, cache.MapEntry{}, fmt.Errorf("unmarshal manifest entry in %s: %w", bundlePath, err)
		}
	}

	return mapData, summary, entry, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
