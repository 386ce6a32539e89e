// =============================================================================
// UKE Receipt Viewer - Parse Command
// =============================================================================
//
// This file defines the 'parse' command, which reads UKE interchange files,
// recovers their receipts, resolves master codes and prints per-file and
// per-receipt summaries.
//
// COMMAND USAGE:
//   ukeview parse <file-or-directory> [more...] [flags]
//
// FLAGS:
//   --report              Write a parse run summary report
//   --group-mode <mode>   Points grouping: insurer | pref | own-pref
//   --search <keyword>    Run a global keyword search instead of the listing
//   --keys <k1,k2,...>    Restrict the search to these keys
//   --and                 Require every active search key to match
//   --patient, --name, --kana, --month, --type
//                         Header filters (substring match, AND-combined)
//
// PROCESSING FLOW:
//   1. Load configuration and master path registry
//   2. Load configured master tables through the cache
//   3. Discover input files (directories expand to *.UKE / *.uke)
//   4. Per file: decode, tokenize, group into receipts, attach diseases
//   5. Print facility, receipt listing (or search results), points summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/recelab/ukeview/internal/analyzer"
	"github.com/recelab/ukeview/internal/config"
	"github.com/recelab/ukeview/internal/masterdata"
	"github.com/recelab/ukeview/internal/search"
	"github.com/recelab/ukeview/internal/types"
	"github.com/recelab/ukeview/internal/ukeparser"
	"github.com/recelab/ukeview/pkg/utils"
)

// Command-line flags for the parse command.
var (
	parseReport    bool
	parseGroupMode string

	parseSearchKeyword string
	parseSearchKeys    []string
	parseSearchAnd     bool

	parseFilterPatient string
	parseFilterName    string
	parseFilterKana    string
	parseFilterMonth   string
	parseFilterType    string
)

// parseCmd represents the 'parse' command.
var parseCmd = &cobra.Command{
	Use:   "parse <file-or-directory> [more...]",
	Short: "Parse UKE files and print receipt summaries",
	Long: `Parse one or more UKE interchange files.

Each argument may be a file or a directory; directories are expanded to
the *.UKE files they contain. Master tables registered with
'ukeview masters load' are used to resolve disease, procedure and drug
codes to names.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseReport, "report", false,
		"write a parse run summary report to the report directory")
	parseCmd.Flags().StringVar(&parseGroupMode, "group-mode", "insurer",
		"points grouping mode: insurer, pref, own-pref")

	parseCmd.Flags().StringVar(&parseSearchKeyword, "search", "",
		"global keyword search; prints hit rows instead of the listing")
	parseCmd.Flags().StringSliceVar(&parseSearchKeys, "keys", nil,
		"comma separated search keys (default: all)")
	parseCmd.Flags().BoolVar(&parseSearchAnd, "and", false,
		"require every active search key to match (AND mode)")

	parseCmd.Flags().StringVar(&parseFilterPatient, "patient", "", "filter: patient number")
	parseCmd.Flags().StringVar(&parseFilterName, "name", "", "filter: patient name")
	parseCmd.Flags().StringVar(&parseFilterKana, "kana", "", "filter: patient kana")
	parseCmd.Flags().StringVar(&parseFilterMonth, "month", "", "filter: treatment month (YYYYMM)")
	parseCmd.Flags().StringVar(&parseFilterType, "type", "", "filter: receipt type code")
}

// loadedMasters bundles the master tables the parse command resolves with.
// Every field may be nil; resolution then falls back to raw codes.
type loadedMasters struct {
	disease        types.MasterTable
	shinryo        types.MasterTable
	drug           types.MasterTable
	modifierName   map[string]string
	knownModifiers map[string]bool
}

// runParse is the main entry point for the parse command.
func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	mode, err := resolveGroupMode(parseGroupMode)
	if err != nil {
		return err
	}

	registry, err := config.LoadMasterPaths(cfg.MasterPathsFile)
	if err != nil {
		return fmt.Errorf("failed to load master paths: %w", err)
	}

	logLevel := cfg.LogLevel
	if verbose {
		logLevel = "debug"
	}
	logger := analyzer.NewLeveledLogger(logLevel)

	cache := masterdata.NewCache(cfg.CacheDir)
	masters := loadConfiguredMasters(cache, registry, logger)

	inputs, err := collectInputFiles(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input files found")
	}

	summary := utils.ParseSummary{
		StartTime:  time.Now(),
		TotalFiles: len(inputs),
	}

	for _, input := range inputs {
		if err := parseOneFile(input, cfg, mode, masters, &summary); err != nil {
			fmt.Printf("✗ %s: %v\n", input, err)
			summary.FailedFiles++
			summary.FailedList = append(summary.FailedList, utils.FailedFileInfo{
				InputFile:    input,
				ErrorMessage: err.Error(),
			})
		}
	}

	summary.EndTime = time.Now()

	fmt.Println()
	fmt.Println("=== Parse Complete ===")
	fmt.Printf("Files:    %d parsed, %d failed\n", summary.ParsedFiles, summary.FailedFiles)
	fmt.Printf("Receipts: %d\n", summary.TotalReceipts)
	fmt.Printf("Records:  %d (%d unknown)\n", summary.TotalRecords, summary.UnknownRecords)

	if parseReport {
		if err := os.MkdirAll(cfg.ReportDir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
		reportPath, err := utils.WriteSummaryReport(summary, cfg.ReportDir)
		if err != nil {
			return err
		}
		fmt.Printf("Report:   %s\n", reportPath)
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d file(s) failed to parse", summary.FailedFiles)
	}
	return nil
}

// parseOneFile parses a single UKE file and prints its summaries.
func parseOneFile(input string, cfg *config.MainConfig, mode analyzer.GroupMode, masters loadedMasters, summary *utils.ParseSummary) error {
	started := time.Now()

	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	text, encodingName := masterdata.DecodeScored(raw)
	records := ukeparser.Tokenize(text)
	receipts := groupReceipts(records, masters.knownModifiers)

	unknown := 0
	for i := range records {
		if records[i].RecordType == "??" {
			unknown++
		}
	}

	fmt.Printf("\n=== %s ===\n", input)
	fmt.Printf("Encoding: %s\n", encodingName)
	fmt.Printf("Records:  %d (%d unknown)\n", len(records), unknown)
	fmt.Printf("Receipts: %d\n", len(receipts))

	facility := analyzer.ExtractFacility(records)
	facilityPref := ""
	if facility != nil {
		facilityPref = facility.PrefectureCode
		fmt.Printf("Facility: %s（%s / %s）請求 %s\n",
			facility.InstitutionName, facility.PrefectureName,
			facility.PayerName, analyzer.FormatClaimYM(facility.ClaimYearMonth))
	}

	resolver := masters.resolver()

	if parseSearchKeyword != "" {
		printSearchResults(receipts, resolver)
	} else {
		printReceiptListing(receipts, masters)
		printPointsSummary(receipts, mode, facilityPref)
	}

	summary.ParsedFiles++
	summary.TotalReceipts += len(receipts)
	summary.TotalRecords += len(records)
	summary.UnknownRecords += unknown
	summary.ParsedList = append(summary.ParsedList, utils.ParsedFileInfo{
		InputFile: input,
		Encoding:  encodingName,
		Receipts:  len(receipts),
		Records:   len(records),
		ParseTime: time.Since(started),
	})
	return nil
}

// groupReceipts groups records into receipts and attaches decoded
// disease entries to each one.
func groupReceipts(records []types.Record, knownModifiers map[string]bool) []types.Receipt {
	grouped := ukeparser.Group(records)
	receipts := make([]types.Receipt, 0, len(grouped))
	for _, r := range grouped {
		ukeparser.AttachDiseases(r, knownModifiers)
		receipts = append(receipts, *r)
	}
	return receipts
}

// printReceiptListing prints one line per receipt, honoring the header
// filter flags when any are set.
func printReceiptListing(receipts []types.Receipt, masters loadedMasters) {
	cond := search.HeaderCondition{
		PatientID:   parseFilterPatient,
		Name:        parseFilterName,
		Kana:        parseFilterKana,
		YearMonth:   parseFilterMonth,
		ReceiptType: parseFilterType,
	}

	indices := make([]int, 0, len(receipts))
	if cond.IsEmpty() {
		for i := range receipts {
			indices = append(indices, i)
		}
	} else {
		indices = search.SearchByHeader(receipts, cond)
		fmt.Printf("Filter:   %d of %d receipts match\n", len(indices), len(receipts))
	}

	for _, i := range indices {
		r := &receipts[i]
		header := r.Header
		if header == nil {
			fmt.Printf("  #%d (line %d) ヘッダなし\n", r.Index, r.StartLine)
			continue
		}

		age := "-"
		if a, ok := analyzer.CalcAge(header.Birthday, header.YearMonth); ok {
			age = a + "歳"
		}
		fmt.Printf("  #%d %s %s（%s）%s 点数 %d\n",
			r.Index,
			valueOrDash(header.PatientID),
			valueOrDash(header.Name),
			age,
			analyzer.BuildReceiptTypeSummary(r),
			analyzer.CalcPointsFromSI(r))

		if verbose {
			printDiseases(r, masters)
		}
	}
}

// printDiseases prints one line per SY entry with master resolution.
func printDiseases(r *types.Receipt, masters loadedMasters) {
	for _, d := range r.Diseases {
		name := d.Code
		if entry, ok := masters.disease[d.Code]; ok && entry.Name != "" {
			name = entry.Name
		}
		var prefix strings.Builder
		for _, m := range d.ModifierCodes {
			if mn, ok := masters.modifierName[m]; ok {
				prefix.WriteString(mn)
			}
		}
		main := ""
		if d.IsMain {
			main = "（主）"
		}
		abolished := ""
		if masterdata.IsCodeAbolished(masters.disease, d.Code) {
			abolished = "【廃止】"
		}
		fmt.Printf("      傷病名: %s%s%s%s 開始 %s\n",
			prefix.String(), name, main, abolished, valueOrDash(d.StartDate))
	}
}

// printSearchResults runs the global keyword search and prints hit rows.
func printSearchResults(receipts []types.Receipt, resolver *search.Resolver) {
	opts := search.Options{
		Keyword: parseSearchKeyword,
		Keys:    parseSearchKeys,
		AndMode: parseSearchAnd,
	}
	results := search.Search(receipts, opts, resolver)

	fmt.Printf("Search:   %q → %d hit(s)\n", parseSearchKeyword, len(results))
	for _, res := range results {
		fmt.Printf("  レセプト %s  %s  %s  [%s]\n",
			res.ReceiptNo,
			valueOrDash(res.PatientID),
			valueOrDash(res.Name),
			res.MatchLabel)
	}
}

// printPointsSummary prints the per-insurer points aggregate.
func printPointsSummary(receipts []types.Receipt, mode analyzer.GroupMode, facilityPref string) {
	ps := analyzer.BuildPointsSummary(receipts, mode, facilityPref)
	if len(ps.Groups) == 0 {
		return
	}

	fmt.Println("  --- 点数集計 ---")
	for _, g := range ps.Groups {
		fmt.Printf("  %s: %d件 %d点\n", g.Label, g.Count, g.Points)
		if verbose {
			for _, d := range g.Details {
				fmt.Printf("      %s %s %d件 %d点\n",
					analyzer.DescribeMedicalReceiptType(d.ReceiptType),
					analyzer.FormatClaimYM(d.YearMonth), d.Count, d.Points)
			}
		}
	}
	fmt.Printf("  合計: %d件 %d点（実患者数 %d）\n",
		ps.TotalCount, ps.TotalPoints, ps.UniquePatients)
}

// loadConfiguredMasters loads every master category the registry has
// paths for. Load failures are reported and skipped; parsing works
// without masters, codes just stay unresolved.
func loadConfiguredMasters(cache *masterdata.Cache, registry *config.MasterPaths, logger analyzer.Logger) loadedMasters {
	var masters loadedMasters

	if paths := registry.Get(string(masterdata.CategoryDisease)); len(paths) > 0 {
		table, err := masterdata.LoadDiseaseMaster(cache, paths)
		if err != nil {
			logger.Warn("disease master: %v", err)
		} else {
			logger.Debug("disease master: %d entries", len(table))
			masters.disease = table
		}
	}
	if paths := registry.Get(string(masterdata.CategoryShinryo)); len(paths) > 0 {
		table, err := masterdata.LoadCategory(cache, masterdata.CategoryShinryo, paths)
		if err != nil {
			logger.Warn("shinryo master: %v", err)
		} else {
			logger.Debug("shinryo master: %d entries", len(table))
			masters.shinryo = table
		}
	}
	if paths := registry.Get(string(masterdata.CategoryDrug)); len(paths) > 0 {
		table, err := masterdata.LoadCategory(cache, masterdata.CategoryDrug, paths)
		if err != nil {
			logger.Warn("drug master: %v", err)
		} else {
			logger.Debug("drug master: %d entries", len(table))
			masters.drug = table
		}
	}
	if paths := registry.Get(string(masterdata.CategoryModifier)); len(paths) > 0 {
		nameByCode, _, err := masterdata.LoadModifierMaster(cache, paths)
		if err != nil {
			logger.Warn("modifier master: %v", err)
		} else {
			logger.Debug("modifier master: %d entries", len(nameByCode))
			masters.modifierName = nameByCode
			masters.knownModifiers = masterdata.KnownModifierCodes(nameByCode)
		}
	}
	return masters
}

// resolver builds the search resolver over the loaded tables.
func (m loadedMasters) resolver() *search.Resolver {
	lookup := func(table types.MasterTable) func(string) string {
		if table == nil {
			return nil
		}
		return func(code string) string {
			return table[strings.TrimSpace(code)].Name
		}
	}
	return &search.Resolver{
		DiseaseName: lookup(m.disease),
		ShinryoName: lookup(m.shinryo),
		DrugName:    lookup(m.drug),
	}
}

// collectInputFiles expands directory arguments into their UKE files.
func collectInputFiles(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input not found: %s", arg)
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		for _, pattern := range []string{"*.UKE", "*.uke"} {
			found, err := utils.DiscoverFiles(arg, pattern)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, found...)
		}
	}

	// Dedupe while keeping argument order.
	seen := make(map[string]bool, len(inputs))
	var result []string
	for _, in := range inputs {
		key := filepath.Clean(in)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, in)
	}
	return result, nil
}

// resolveGroupMode maps the flag value onto a grouping mode.
func resolveGroupMode(value string) (analyzer.GroupMode, error) {
	switch value {
	case "insurer", "":
		return analyzer.GroupByInsurer, nil
	case "pref":
		return analyzer.GroupWideByPref, nil
	case "own-pref":
		return analyzer.GroupOwnPrefOnly, nil
	default:
		return analyzer.GroupByInsurer, fmt.Errorf("invalid group mode: %s (valid: insurer, pref, own-pref)", value)
	}
}

// valueOrDash substitutes "-" for an empty value.
func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
