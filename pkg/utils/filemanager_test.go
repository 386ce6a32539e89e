package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileIdentity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "master.csv")
	if err := os.WriteFile(path, []byte("abcde"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	size, mtime, err := FileIdentity(path)
	if err != nil {
		t.Fatalf("FileIdentity: %v", err)
	}
	if size != 5 {
		t.Errorf("size = %d, want 5", size)
	}
	if mtime.IsZero() {
		t.Error("mtime is zero")
	}

	if _, _, err := FileIdentity(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.UKE", "b.UKE", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.UKE"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := DiscoverFiles(dir, "*.UKE")
	if err != nil {
		t.Fatalf("DiscoverFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("found %d files, want 2 (directories must be excluded): %v", len(files), files)
	}

	all, err := DiscoverFiles(dir, "")
	if err != nil {
		t.Fatalf("DiscoverFiles default pattern: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("default pattern found %d files, want 3", len(all))
	}
}

func TestGenerateReportFileName(t *testing.T) {
	name := GenerateReportFileName("{original}_{date}.txt", map[string]string{
		"original": "RECEIPTC",
	})
	if !strings.HasPrefix(name, "RECEIPTC_") {
		t.Errorf("name = %q, want RECEIPTC_ prefix", name)
	}
	if !strings.HasSuffix(name, ".txt") {
		t.Errorf("name = %q, want .txt suffix", name)
	}

	// Names without a .txt suffix get one appended.
	forced := GenerateReportFileName("{uuid}", nil)
	if !strings.HasSuffix(forced, ".txt") {
		t.Errorf("forced name = %q, want .txt suffix", forced)
	}

	// Two calls never collide thanks to the uuid placeholder.
	a := GenerateReportFileName("report_{uuid}.txt", nil)
	b := GenerateReportFileName("report_{uuid}.txt", nil)
	if a == b {
		t.Errorf("consecutive names collide: %q", a)
	}
}

func TestWriteSummaryReport(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2025, 10, 1, 9, 0, 0, 0, time.Local)

	summary := ParseSummary{
		StartTime:      start,
		EndTime:        start.Add(3 * time.Second),
		TotalFiles:     2,
		ParsedFiles:    1,
		FailedFiles:    1,
		TotalReceipts:  12,
		TotalRecords:   340,
		UnknownRecords: 2,
		ParsedList: []ParsedFileInfo{
			{InputFile: "RECEIPTC.UKE", Encoding: "shift_jis", Receipts: 12, Records: 340, ParseTime: time.Second},
		},
		FailedList: []FailedFileInfo{
			{InputFile: "broken.UKE", ErrorMessage: "failed to read file"},
		},
	}

	path, err := WriteSummaryReport(summary, dir)
	if err != nil {
		t.Fatalf("WriteSummaryReport: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	text := string(data)

	for _, want := range []string{
		"Total Files:     2",
		"Total Receipts:  12",
		"Unknown Records: 2",
		"RECEIPTC.UKE",
		"shift_jis",
		"broken.UKE",
		"failed to read file",
		"End of Summary",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report is missing %q", want)
		}
	}
}
