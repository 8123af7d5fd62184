package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
)

const (
	CSVFile   = "events.csv"
	XLSXFile  = "events.xlsx"
	ImagesDir = "images"

	exportPageSize = 100
)

type EventSource interface {
	EachEvent(ctx context.Context, f analytics.Filter, pageSize int, fn func(page *analytics.EventsPage) error) error
}

type Downloader interface {
	Download(ctx context.Context, rawURL string) (*http.Response, error)
}

// Item represents a single exported event with its local evidence image path.
type Item struct {
	Event     analytics.Event
	ImagePath string
}

// Result describes one export run.
type Result struct {
	Dir   string
	Items []Item
}

// Service exports parking events with their evidence images.
type Service struct {
	events EventSource
	images Downloader
	loc    *time.Location
}

func NewService(events EventSource, images Downloader, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}

	return &Service{
		events: events,
		images: images,
		loc:    loc,
	}
}

// Export writes every event matching the filter into a fresh run folder under
// outputDir: a CSV and an XLSX listing plus one image per event that has
// evidence attached.
func (s *Service) Export(ctx context.Context, f analytics.Filter, outputDir string) (*Result, error) {
	dir := filepath.Join(outputDir, runName(f))

	if err := os.MkdirAll(filepath.Join(dir, ImagesDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var items []Item

	err := s.events.EachEvent(ctx, f, exportPageSize, func(page *analytics.EventsPage) error {
		for _, e := range page.Events {
			item := Item{Event: e}

			path, err := s.saveImage(ctx, e, filepath.Join(dir, ImagesDir))
			if err != nil {
				return fmt.Errorf("saving image for event %d: %w", e.ID, err)
			}

			item.ImagePath = path
			items = append(items, item)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := writeFile(filepath.Join(dir, CSVFile), func(w io.Writer) error {
		return WriteCSV(w, items, s.loc)
	}); err != nil {
		return nil, err
	}

	if err := WriteXLSX(filepath.Join(dir, XLSXFile), items, s.loc); err != nil {
		return nil, err
	}

	return &Result{Dir: dir, Items: items}, nil
}

// runName is <start>_<end>[_<branch>]_<short id>.
func runName(f analytics.Filter) string {
	parts := []string{
		f.Range.Start.Format("20060102"),
		f.Range.End.Format("20060102"),
	}

	if f.BranchID != "" {
		parts = append(parts, sanitize(f.BranchID))
	}

	parts = append(parts, uuid.NewString()[:8])

	return strings.Join(parts, "_")
}

func (s *Service) saveImage(ctx context.Context, e analytics.Event, dir string) (string, error) {
	switch {
	case e.EvidenceImageURL != "" && s.images != nil:
		return s.downloadImage(ctx, e, dir)
	case e.ImageBase64 != "":
		return s.decodeImage(e, dir)
	}

	return "", nil
}

func (s *Service) downloadImage(ctx context.Context, e analytics.Event, dir string) (string, error) {
	resp, err := s.images.Download(ctx, e.EvidenceImageURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	path := filepath.Join(dir, s.determineFilename(resp, e))

	if err := writeFile(path, func(w io.Writer) error {
		_, err := io.Copy(w, resp.Body)
		return err
	}); err != nil {
		return "", err
	}

	return path, nil
}

// decodeImage stores an inline image. Data URLs ("data:image/png;base64,...")
// and bare base64 payloads are both accepted.
func (s *Service) decodeImage(e analytics.Event, dir string) (string, error) {
	payload := e.ImageBase64
	if i := strings.Index(payload, ","); strings.HasPrefix(payload, "data:") && i >= 0 {
		payload = payload[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	path := filepath.Join(dir, s.fallbackName(e, http.DetectContentType(data)))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return path, nil
}

func (s *Service) determineFilename(resp *http.Response, e analytics.Event) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if filename, ok := params["filename"]; ok && filename != "" {
				return strconv.Itoa(e.ID) + "_" + strings.ReplaceAll(filepath.Base(filename), " ", "_")
			}
		}
	}

	return s.fallbackName(e, resp.Header.Get("Content-Type"))
}

// fallbackName is YYYYMMDD-HHMMSS_<event id>_<branch>.<ext>.
func (s *Service) fallbackName(e analytics.Event, contentType string) string {
	ts := e.Timestamp.In(s.loc).Format("20060102-150405")
	return fmt.Sprintf("%s_%d_%s%s", ts, e.ID, sanitize(e.Branch.ID), extensionFor(contentType))
}

func extensionFor(contentType string) string {
	mediaType, _, _ := mime.ParseMediaType(contentType)

	switch mediaType {
	case "image/jpeg", "":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}

	if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
		return exts[0]
	}

	return ".jpg"
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, s)
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}

	return f.Close()
}
