// Package main is the docqa CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/docqa/internal/cli"
	"github.com/hyperjump/docqa/internal/config"
	"github.com/hyperjump/docqa/internal/extract"
	"github.com/hyperjump/docqa/internal/models"
	"github.com/hyperjump/docqa/internal/ocr"
	"github.com/hyperjump/docqa/internal/pdf"
	"github.com/hyperjump/docqa/internal/qa"
	"github.com/hyperjump/docqa/internal/server"
	"github.com/hyperjump/docqa/internal/session"
	"github.com/hyperjump/docqa/internal/storage"
	"github.com/hyperjump/docqa/internal/watcher"
	"github.com/hyperjump/docqa/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/docqa/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory; if that exists it is used, so that
// "docqa server" from a project dir picks up the project's config.
// A missing default config is not an error: built-in defaults are used.
// Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg := &config.Config{}
			if err := config.LoadEnv(".env"); err != nil {
				return nil, "", err
			}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "extract":
		runExtract()
	case "add":
		runAdd()
	case "ask":
		runAsk()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("docqa version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// setup loads config and creates the logger shared by every subcommand.
func setup(configPath string, debugFlag bool) (*config.Config, string, *zap.Logger) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if debugFlag {
		cfg.Debug = true
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return cfg, resolved, logger
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (extraction tiers, watcher events, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, logger := setup(*configPath, *debug)
	defer logger.Sync()
	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", cfg.Debug),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("qa_provider", cfg.QA.Provider),
	)

	components, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	var watchSvc *watcher.Watcher
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if len(cfg.Watch.Directories) > 0 {
		exts := cfg.Watch.Extensions
		sess := components.Session
		watchSvc = watcher.New(watcher.Options{
			Directories: cfg.Watch.Directories,
			Extensions:  exts,
			Recursive:   cfg.Watch.RecursiveOrDefault(),
		}, func(path string) {
			out, err := sess.SubmitFile(watchCtx, path, exts)
			if err != nil {
				logger.Warn("inbox file failed", zap.String("path", path), zap.Error(err))
				return
			}
			if !out.Skipped {
				logger.Info("inbox file processed", zap.String("path", path), zap.String("method", out.Record.Result.Method))
			}
		}, watcher.WithLogger(logger))
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		go watchSvc.SyncExistingFiles()
	}

	var watch server.WatchService
	if watchSvc != nil {
		watch = watchSvc
	}
	srv := server.NewServer(components.Session, cfg, logger, watch)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// argsReorder moves any flags (and their values) that appear after the
// positional arguments to the front so that flag.Parse sees them. The flag
// package stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// buildQuestion joins all positional args with spaces so multi-word questions
// work the same with or without shell quoting.
func buildQuestion(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseOutputFormat(s string) (cli.OutputFormat, error) {
	switch s {
	case "text", "":
		return cli.OutputText, nil
	case "json":
		return cli.OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

func mustOutputFormat(s string) cli.OutputFormat {
	format, err := parseOutputFormat(s)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return format
}

// runExtract prints the text of each file without storing anything.
func runExtract() {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))
	if fs.NArg() < 1 {
		fmt.Println("Usage: docqa extract [flags] <file>...")
		os.Exit(1)
	}
	format := mustOutputFormat(*outputFormat)

	cfg, _, logger := setup(*configPath, *debug)
	defer logger.Sync()
	extractor, closeOCR := buildExtractor(cfg, logger)
	defer closeOCR()

	failed := false
	for _, path := range fs.Args() {
		res, err := extractor.ExtractFile(context.Background(), path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
			continue
		}
		if !res.Success {
			failed = true
		}
		if err := cli.WriteExtraction(os.Stdout, filepath.Base(path), res, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	}
	if failed {
		os.Exit(1)
	}
}

// runAdd processes files or directories into the configured store.
func runAdd() {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	serverURL := fs.String("server", "", "server URL to upload to (empty = process into the configured store directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))
	if fs.NArg() < 1 {
		fmt.Println("Usage: docqa add [flags] <file-or-directory>...")
		os.Exit(1)
	}
	format := mustOutputFormat(*outputFormat)

	var outcomes []models.Outcome
	if *serverURL != "" {
		files, err := collectFiles(fs.Args(), nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		outcomes, err = uploadViaHTTP(*serverURL, files)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Upload failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, _, logger := setup(*configPath, *debug)
		defer logger.Sync()
		if cfg.Storage.Driver == storage.DriverMemory {
			fmt.Fprintln(os.Stderr, "warning: storage driver is memory; processed documents are discarded on exit")
		}
		components, err := initializeComponents(context.Background(), cfg, logger)
		if err != nil {
			logger.Fatal("Failed to initialize", zap.Error(err))
		}
		defer components.Close()
		outcomes = addPaths(context.Background(), components.Session, fs.Args(), cfg.Watch.Extensions)
	}
	if err := cli.WriteOutcomes(os.Stdout, outcomes, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// addPaths submits each path. Directories are walked and filtered by exts;
// single files are always submitted.
func addPaths(ctx context.Context, sess *session.Session, paths, exts []string) []models.Outcome {
	var outcomes []models.Outcome
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			outcomes = append(outcomes, models.Outcome{Filename: filepath.Base(path), Error: err.Error()})
			continue
		}
		if info.IsDir() {
			outs, err := sess.SubmitDirectory(ctx, path, exts)
			outcomes = append(outcomes, outs...)
			if err != nil {
				outcomes = append(outcomes, models.Outcome{Filename: filepath.Base(path), Error: err.Error()})
			}
			continue
		}
		out, _ := sess.SubmitFile(ctx, path, nil)
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// collectFiles expands directories into the files they contain, filtered by exts.
func collectFiles(paths, exts []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			if len(exts) > 0 && !hasExtension(p, exts) {
				return nil
			}
			files = append(files, p)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func hasExtension(path string, exts []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range exts {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}

func printAskUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: docqa ask [flags] <question>\n\n")
	fmt.Fprintf(fs.Output(), "The question is all remaining arguments joined by spaces.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  docqa ask --server http://localhost:8080 what changed in the last quarter
  docqa ask --documents report.pdf,notes.docx "who signed the contract?"
  docqa ask --server "" --files report.pdf summarise the findings   # one-shot, no server
`)
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = answer directly from the configured store)")
	documents := fs.String("documents", "", "comma-separated filenames to ask about (default: all processed documents)")
	files := fs.String("files", "", "comma-separated files to process before asking (direct mode only)")
	model := fs.String("model", "", "model override for this question")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printAskUsage(fs) }
	_ = fs.Parse(argsReorder(os.Args[2:]))

	question := buildQuestion(fs.Args())
	if question == "" {
		printAskUsage(fs)
		os.Exit(1)
	}
	format := mustOutputFormat(*outputFormat)
	req := models.AskRequest{Question: question, Documents: splitList(*documents), Model: *model}

	var (
		ex  models.QAExchange
		err error
	)
	if *serverURL != "" {
		ex, err = askViaHTTP(*serverURL, req)
	} else {
		cfg, _, logger := setup(*configPath, *debug)
		defer logger.Sync()
		ctx := context.Background()
		components, initErr := initializeComponents(ctx, cfg, logger)
		if initErr != nil {
			logger.Fatal("Failed to initialize", zap.Error(initErr))
		}
		defer components.Close()
		for _, out := range addPaths(ctx, components.Session, splitList(*files), nil) {
			if !out.OK() {
				fmt.Fprintf(os.Stderr, "%s: %s\n", out.Filename, out.Error)
			}
		}
		ex, err = components.Session.Ask(ctx, req)
	}
	if err != nil && ex.Answer == "" {
		fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
		os.Exit(1)
	}
	if werr := cli.WriteExchange(os.Stdout, ex, format); werr != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", werr)
		os.Exit(1)
	}
	if err != nil {
		os.Exit(1)
	}
}

// errorBody reads a JSON {"error": ...} body, falling back to the raw text.
func errorBody(resp *http.Response) error {
	b, _ := io.ReadAll(resp.Body)
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &e) == nil && e.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
}

// askViaHTTP posts req to the server. A 502 carries the failed exchange,
// which is returned together with the error.
func askViaHTTP(serverURL string, req models.AskRequest) (models.QAExchange, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return models.QAExchange{}, err
	}
	resp, err := http.Post(serverURL+"/api/v1/ask", "application/json", bytes.NewReader(body))
	if err != nil {
		return models.QAExchange{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		var ex models.QAExchange
		if err := json.NewDecoder(resp.Body).Decode(&ex); err != nil {
			return models.QAExchange{}, fmt.Errorf("decode response: %w", err)
		}
		return ex, nil
	case http.StatusBadGateway:
		var out struct {
			Error    string            `json:"error"`
			Exchange models.QAExchange `json:"exchange"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return models.QAExchange{}, fmt.Errorf("decode response: %w", err)
		}
		return out.Exchange, errors.New(out.Error)
	default:
		return models.QAExchange{}, errorBody(resp)
	}
}

// uploadViaHTTP sends files as one multipart upload.
func uploadViaHTTP(serverURL string, files []string) ([]models.Outcome, error) {
	body, contentType, err := multipartBody(files)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/documents", contentType, body)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errorBody(resp)
	}
	var out struct {
		Outcomes []models.Outcome `json:"outcomes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Outcomes, nil
}

// multipartBody builds a multipart form with one "file" part per path.
func multipartBody(files []string) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", path, err)
		}
		part, err := mw.CreateFormFile("file", filepath.Base(path))
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

// statusResponse is the shape of the GET /api/v1/status response.
type statusResponse struct {
	Documents      int64                  `json:"documents"`
	Exchanges      int64                  `json:"exchanges"`
	Pending        []string               `json:"pending"`
	DiskUsageBytes *int64                 `json:"disk_usage_bytes,omitempty"`
	Config         map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = read the configured store directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	format := mustOutputFormat(*outputFormat)

	if *serverURL != "" {
		st, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		writeRemoteStatus(os.Stdout, st, format)
		return
	}

	cfg, _, logger := setup(*configPath, false)
	defer logger.Sync()
	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	sess := session.New(extract.NewExtractor(), store, nil, session.WithModel(cfg.QA.Model))
	defer sess.Close()
	st, err := sess.Status(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteStatus(os.Stdout, st, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
	if format == cli.OutputText && cfg.Storage.Driver == storage.DriverSQLite {
		if size, err := storage.DatabaseSize(cfg.Storage.DatabasePath); err == nil {
			fmt.Printf("Disk:      %d bytes (%s)\n", size, cfg.Storage.DatabasePath)
		}
	}
}

func writeRemoteStatus(w io.Writer, st *statusResponse, format cli.OutputFormat) {
	if format == cli.OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(st)
		return
	}
	model, _ := st.Config["model"].(string)
	_ = cli.WriteStatus(w, session.Status{
		Documents: st.Documents,
		Exchanges: st.Exchanges,
		Pending:   st.Pending,
		Model:     model,
	}, cli.OutputText)
	if st.DiskUsageBytes != nil {
		fmt.Fprintf(w, "Disk:      %d bytes\n", *st.DiskUsageBytes)
	}
	if dirs, ok := st.Config["watch_directories"].([]interface{}); ok && len(dirs) > 0 {
		names := make([]string, 0, len(dirs))
		for _, d := range dirs {
			names = append(names, fmt.Sprint(d))
		}
		fmt.Fprintf(w, "Inbox:     %s\n", strings.Join(names, ", "))
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errorBody(resp)
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// Components holds initialized services.
type Components struct {
	Session  *session.Session
	closeOCR func()
}

func (c *Components) Close() {
	if c.Session != nil {
		_ = c.Session.Close()
	}
	if c.closeOCR != nil {
		c.closeOCR()
	}
}

// buildExtractor wires the PDF pipeline with OCR as configured. When the OCR
// backends cannot be created the pipeline runs without the OCR tiers.
// The returned func releases the OCR recognizer.
func buildExtractor(cfg *config.Config, logger *zap.Logger) (*extract.Extractor, func()) {
	ex := cfg.Extraction
	pdfOpts := []pdf.Option{pdf.WithLogger(logger)}
	closeOCR := func() {}
	if !ex.DisableOCR {
		engine, recognizer, err := buildOCR(ex, logger)
		if err != nil {
			logger.Warn("OCR unavailable, scanned PDFs will fail", zap.Error(err))
		} else {
			pdfOpts = append(pdfOpts, pdf.WithOCR(engine))
			closeOCR = func() { _ = recognizer.Close() }
		}
	}
	pipeline := pdf.NewPipeline(pdf.Options{
		MinTextLength: ex.MinTextLength,
		RepairTimeout: ex.RepairTimeout,
		QPDFPath:      ex.QPDFPath,
	}, pdfOpts...)
	return extract.NewExtractor(extract.WithPDF(pipeline), extract.WithLogger(logger)), closeOCR
}

func buildOCR(ex config.ExtractionConfig, logger *zap.Logger) (*ocr.Engine, ocr.Recognizer, error) {
	rasterizer, err := ocr.NewRasterizer(ex.Rasterizer, ex.PDFToPPMPath)
	if err != nil {
		return nil, nil, fmt.Errorf("rasterizer: %w", err)
	}
	recognizer, err := ocr.NewRecognizer(ex.Recognizer, ex.TesseractPath, ex.OCRLanguages)
	if err != nil {
		return nil, nil, fmt.Errorf("recognizer: %w", err)
	}
	engine := ocr.NewEngine(rasterizer, recognizer,
		ocr.WithLogger(logger),
		ocr.WithDPI(ex.OCRDPI),
		ocr.WithMaxPages(ex.MaxOCRPages),
		ocr.WithPageTimeout(ex.PageTimeout),
	)
	return engine, recognizer, nil
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	gateway, err := qa.NewGateway(ctx, qa.GatewayConfig{
		Provider:    cfg.QA.Provider,
		APIKey:      cfg.QA.APIKey,
		BaseURL:     cfg.QA.BaseURL,
		Temperature: cfg.QA.Temperature,
		MaxTokens:   cfg.QA.MaxTokens,
	})
	if err != nil {
		// Documents can still be processed; Ask reports the missing provider.
		logger.Warn("question answering unavailable", zap.String("provider", cfg.QA.Provider), zap.Error(err))
		gateway = nil
	}
	extractor, closeOCR := buildExtractor(cfg, logger)
	sess := session.New(extractor, store, gateway,
		session.WithLogger(logger),
		session.WithModel(cfg.QA.Model),
		session.WithAssembler(qa.NewAssembler(cfg.QA.Budget, cfg.QA.PerDocumentLimit)),
	)
	return &Components{Session: sess, closeOCR: closeOCR}, nil
}

func printUsage() {
	fmt.Println(`docqa - Ask questions about your documents

Usage:
  docqa server [flags]                Start the HTTP server
  docqa extract [flags] <file>...     Print the extracted text of files
  docqa add [flags] <path>...         Process files or directories into the store
  docqa ask [flags] <question>        Ask a question about processed documents
  docqa status [flags]                Show document and history counts
  docqa version                       Show version
  docqa help                          Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/docqa/config.yaml, or ./config.yaml)
  --debug            Enable debug logging
  --output string    Output format: text or json (default: text)

Add Flags:
  --server string    Upload to a running server instead of the configured store

Ask Flags:
  --server string     Server URL (default: http://localhost:8080). Use --server "" to answer directly.
  --documents string  Comma-separated filenames to ask about (default: all)
  --files string      Comma-separated files to process first (direct mode)
  --model string      Model override

Status Flags:
  --server string    Server URL (default: http://localhost:8080). Use --server "" to read the store directly.

Examples:
  docqa server
  docqa extract scanned.pdf
  docqa add ~/Documents/contracts
  docqa ask what is the notice period
  docqa ask --documents lease.pdf --output json "when does the lease end?"
  docqa status --output json`)
}
