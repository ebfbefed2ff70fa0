// Command ogzdump decodes Cube2/Sauerbraten-derived .ogz octree maps.
//
// Usage:
//
//	ogzdump dump <file.ogz>              Decode and print a summary
//	ogzdump index <dir>                  Batch-decode a directory tree
//	ogzdump bundle <file.ogz> <out.ogzb> Bundle a map with its summary
//	ogzdump list                         Show the on-disk manifest index
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ernie/ogzdecode/internal/bundle"
	"github.com/ernie/ogzdecode/internal/cache"
	"github.com/ernie/ogzdecode/internal/config"
	"github.com/ernie/ogzdecode/internal/ogz"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	runID := uuid.New().String()[:8]
	log.SetPrefix(fmt.Sprintf("[ogzdump %s] ", runID))
	log.SetFlags(0)

	var err error
	switch os.Args[1] {
	case "dump":
		err = runDump(os.Args[2:])
	case "index":
		err = runIndex(os.Args[2:])
	case "bundle":
		err = runBundle(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		// Bare `ogzdump <file.ogz>` is shorthand for `ogzdump dump <file.ogz>`.
		err = runDump(os.Args[1:])
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "ogzdump: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage:
  ogzdump dump <file.ogz>              Decode and print a summary
  ogzdump index <dir>                  Batch-decode a directory tree
  ogzdump bundle <file.ogz> <out.ogzb> Bundle a map with its summary
  ogzdump list                         Show the on-disk manifest index

Run "ogzdump <command> -h" for command-specific options.
`)
}

// colorEnabled decides whether to emit ANSI color, honoring the config
// and refusing to color non-terminal output.
func colorEnabled(cfg config.Config, w *os.File) bool {
	if !cfg.Color {
		return false
	}
	return term.IsTerminal(int(w.Fd())) || isatty.IsTerminal(w.Fd())
}

// loadGzippedOGZ reads path, transparently gzip-decompressing it if it
// carries a gzip magic header (Cube2 .ogz files are gzip streams).
func loadGzippedOGZ(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	magic := make([]byte, 2)
	n, err := io.ReadFull(f, magic)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s: %w", path, err)
	}

	if n == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip header %s: %w", path, err)
		}
		defer gr.Close()
		data, err := io.ReadAll(gr)
		if err != nil {
			return nil, fmt.Errorf("gzip decompress %s: %w", path, err)
		}
		return data, nil
	}

	return io.ReadAll(f)
}

func summarize(path string, data []byte, m *ogz.Map) cache.Summary {
	return cache.Summary{
		Path:        path,
		Hash:        cache.ContentHash(data),
		Version:     m.Header.Version,
		WorldSize:   m.Header.WorldSize,
		NumEntities: len(m.Entities),
		NumVSlots:   len(m.VSlots),
		NumVars:     len(m.Vars),
		GameIdent:   m.GameIdent,
		DecodedAt:   time.Now().UTC(),
	}
}

func runDump(args []string) error {
	fs := pflag.NewFlagSet("dump", pflag.ContinueOnError)
	verbose := fs.BoolP("verbose", "v", false, "report per-cube surface counts")
	configPath := fs.String("config", config.DefaultPath(), "config file path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("dump: missing input file\nUsage: ogzdump dump <file.ogz>")
	}
	path := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	data, err := loadGzippedOGZ(path)
	if err != nil {
		return err
	}

	hash := cache.ContentHash(data)

	c, err := cache.Open(cfg.CachePath)
	if err != nil {
		return err
	}
	defer c.Close()

	show := func(s cache.Summary) error {
		if cfg.Format == config.FormatJSON {
			out, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal summary: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}
		printSummary(path, s, colorEnabled(cfg, os.Stdout))
		return nil
	}

	if cached, ok, err := c.Get(hash); err == nil && ok {
		log.Printf("cache hit for %s (hash %s)", path, hash[:12])
		return show(cached)
	}

	m, err := ogz.DecodeVersionRange(data, cfg.MinVersion, cfg.MaxVersion)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	summary := summarize(path, data, m)
	if err := c.Put(hash, summary); err != nil {
		log.Printf("warning: failed to cache %s: %v", path, err)
	}

	if err := show(summary); err != nil {
		return err
	}

	if *verbose {
		printSurfaceCounts(m)
	}

	return nil
}

func printSummary(path string, s cache.Summary, color bool) {
	bold := func(s string) string { return s }
	if color {
		bold = func(s string) string { return "\033[1m" + s + "\033[0m" }
	}

	fmt.Printf("%s %s\n", bold("map:"), path)
	fmt.Printf("  %s       %s\n", bold("game"), s.GameIdent)
	fmt.Printf("  %s    %d\n", bold("version"), s.Version)
	fmt.Printf("  %s  %s\n", bold("worldSize"), humanize.Comma(int64(s.WorldSize)))
	fmt.Printf("  %s  %s\n", bold("entities"), humanize.Comma(int64(s.NumEntities)))
	fmt.Printf("  %s   %s\n", bold("vslots"), humanize.Comma(int64(s.NumVSlots)))
	fmt.Printf("  %s     %s\n", bold("vars"), humanize.Comma(int64(s.NumVars)))
}

func printSurfaceCounts(m *ogz.Map) {
	var withSurfaces, total int
	var walk func(cubes [8]ogz.Cube)
	walk = func(cubes [8]ogz.Cube) {
		for _, c := range cubes {
			total++
			for _, s := range c.Surfaces {
				if s != nil {
					withSurfaces++
					break
				}
			}
			if c.Children != nil {
				walk(*c.Children)
			}
		}
	}
	walk(m.OctreeRoots)
	fmt.Printf("  cubes:       %d (%d with surface layers)\n", total, withSurfaces)
}

func runIndex(args []string) error {
	fs := pflag.NewFlagSet("index", pflag.ContinueOnError)
	indexPath := fs.String("o", "ogzdump-index.json", "manifest index output path")
	configPath := fs.String("config", config.DefaultPath(), "config file path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("index: missing directory\nUsage: ogzdump index <dir>")
	}
	root := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	idx, err := cache.LoadIndex(*indexPath)
	if err != nil {
		return err
	}

	var count int
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".ogz" {
			return err
		}

		data, err := loadGzippedOGZ(path)
		if err != nil {
			log.Printf("skip %s: %v", path, err)
			return nil
		}
		m, err := ogz.DecodeVersionRange(data, cfg.MinVersion, cfg.MaxVersion)
		if err != nil {
			log.Printf("skip %s: %v", path, err)
			return nil
		}

		hash := cache.ContentHash(data)
		idx.Put(hash, cache.MapEntry{
			Path:      path,
			Version:   m.Header.Version,
			WorldSize: m.Header.WorldSize,
			GameIdent: m.GameIdent,
		})
		count++
		log.Printf("indexed %s (%d entities, %d vslots)", path, len(m.Entities), len(m.VSlots))
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}

	if err := idx.Save(*indexPath); err != nil {
		return err
	}
	log.Printf("wrote %s: %d maps indexed", *indexPath, count)
	return nil
}

func runBundle(args []string) error {
	fs := pflag.NewFlagSet("bundle", pflag.ContinueOnError)
	configPath := fs.String("config", config.DefaultPath(), "config file path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("bundle: missing arguments\nUsage: ogzdump bundle <file.ogz> <out.ogzb>")
	}
	ogzPath, outPath := fs.Arg(0), fs.Arg(1)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	data, err := loadGzippedOGZ(ogzPath)
	if err != nil {
		return err
	}
	m, err := ogz.DecodeVersionRange(data, cfg.MinVersion, cfg.MaxVersion)
	if err != nil {
		return fmt.Errorf("decode %s: %w", ogzPath, err)
	}

	summary := summarize(ogzPath, data, m)
	entry := cache.MapEntry{
		Path:      ogzPath,
		Version:   m.Header.Version,
		WorldSize: m.Header.WorldSize,
		GameIdent: m.GameIdent,
	}

	if err := bundle.BuildMapBundle(ogzPath, summary, entry, outPath); err != nil {
		return err
	}
	log.Printf("wrote %s", outPath)
	return nil
}

func runList(args []string) error {
	fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
	indexPath := fs.String("index", "ogzdump-index.json", "manifest index path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	idx, err := cache.LoadIndex(*indexPath)
	if err != nil {
		return err
	}

	for _, hash := range idx.SortedHashes() {
		entry := idx.Maps[hash]
		fmt.Printf("%s  %-8s v%d  %s\n", hash[:12], entry.GameIdent, entry.Version, entry.Path)
	}
	return nil
}
