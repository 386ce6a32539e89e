// =============================================================================
// UKE Viewer - File Utilities
// =============================================================================
//
// This module provides filesystem helpers shared across the tool:
//   - File identity stamps (size + mtime) for cache invalidation
//   - Input file discovery
//   - Report file naming
//   - Parse run summary generation
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE IDENTITY
// =============================================================================

// FileIdentity returns the size and modification time of a file. The pair
// serves as a cheap content fingerprint for master cache signatures.
func FileIdentity(path string) (int64, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, time.Time{}, err
	}
	return info.Size(), info.ModTime(), nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverFiles scans a directory for files matching the pattern.
//
// PARAMETERS:
//   - dir: The directory to scan.
//   - pattern: A glob pattern to match files (e.g., "*.UKE").
//     If empty, defaults to "*".
//
// RETURNS:
//   - A slice of file paths, directories excluded.
//   - An error if the directory cannot be read.
func DiscoverFiles(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}

	fullPattern := filepath.Join(dir, pattern)

	files, err := filepath.Glob(fullPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	// Filter out directories.
	var result []string
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			result = append(result, file)
		}
	}

	return result, nil
}

// =============================================================================
// REPORT FILE NAMING
// =============================================================================

// GenerateReportFileName generates a unique report file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {uuid}      - A random UUID
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Current date (YYYYMMDD)
//     {time}      - Current time (HHMMSS)
//     {original}  - Original file name (without extension)
//   - params: A map of placeholder values.
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//
//	format: "{original}_{timestamp}_{uuid}.txt"
//	params: {"original": "RECEIPTC"}
//	output: "RECEIPTC_20240115_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890.txt"
func GenerateReportFileName(format string, params map[string]string) string {
	now := time.Now()

	id := uuid.New().String()

	replacements := map[string]string{
		"{uuid}":      id,
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if !strings.HasSuffix(strings.ToLower(result), ".txt") {
		result += ".txt"
	}

	return result
}

// =============================================================================
// PARSE RUN SUMMARY
// =============================================================================

// ParseSummary contains summary information about a parse run.
type ParseSummary struct {
	StartTime      time.Time
	EndTime        time.Time
	TotalFiles     int
	ParsedFiles    int
	FailedFiles    int
	TotalReceipts  int
	TotalRecords   int
	UnknownRecords int
	ParsedList     []ParsedFileInfo
	FailedList     []FailedFileInfo
}

// ParsedFileInfo contains information about a successfully parsed file.
type ParsedFileInfo struct {
	InputFile string
	Encoding  string
	Receipts  int
	Records   int
	ParseTime time.Duration
}

// FailedFileInfo contains information about a failed file.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

// WriteSummaryReport writes a parse run summary to a report file.
//
// PARAMETERS:
//   - summary: The parse summary.
//   - outputDir: The directory to write the report file.
//
// RETURNS:
//   - The path to the report file.
//   - An error if writing fails.
func WriteSummaryReport(summary ParseSummary, outputDir string) (string, error) {
	reportName := GenerateReportFileName("parse_summary_{timestamp}_{uuid}.txt", nil)
	reportPath := filepath.Join(outputDir, reportName)

	file, err := os.Create(reportPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	// Write header.
	duration := summary.EndTime.Sub(summary.StartTime)
	header := fmt.Sprintf("UKE Viewer - Parse Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:     %d\n"+
		"  Parsed:          %d\n"+
		"  Failed:          %d\n"+
		"  Total Receipts:  %d\n"+
		"  Total Records:   %d\n"+
		"  Unknown Records: %d\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalFiles,
		summary.ParsedFiles,
		summary.FailedFiles,
		summary.TotalReceipts,
		summary.TotalRecords,
		summary.UnknownRecords)
	writer.WriteString(header)

	// Write parsed files.
	if len(summary.ParsedList) > 0 {
		writer.WriteString("Parsed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, pf := range summary.ParsedList {
			writer.WriteString(fmt.Sprintf("  Input:      %s\n", pf.InputFile))
			writer.WriteString(fmt.Sprintf("  Encoding:   %s\n", pf.Encoding))
			writer.WriteString(fmt.Sprintf("  Receipts:   %d\n", pf.Receipts))
			writer.WriteString(fmt.Sprintf("  Records:    %d\n", pf.Records))
			writer.WriteString(fmt.Sprintf("  Parse Time: %s\n\n", pf.ParseTime.String()))
		}
	}

	// Write failed files.
	if len(summary.FailedList) > 0 {
		writer.WriteString("Failed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, ff := range summary.FailedList {
			writer.WriteString(fmt.Sprintf("  File:  %s\n", ff.InputFile))
			writer.WriteString(fmt.Sprintf("  Error: %s\n\n", ff.ErrorMessage))
		}
	}

	footer := "================================================================================\n" +
		"End of Summary\n"
	writer.WriteString(footer)

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return reportPath, nil
}
