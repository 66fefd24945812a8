package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/r7330980/gennm/domain"
	"github.com/r7330980/gennm/internal/analyzer"
	"github.com/r7330980/gennm/internal/parser"
	"github.com/r7330980/gennm/internal/version"
	"github.com/r7330980/gennm/service"
)

// LowerUseCase orchestrates lowering every top-level function discovered
// under a request's input path: resolve files, parse and lower each one
// (optionally in parallel across files), aggregate the per-function
// results, and write the binary IR.
type LowerUseCase struct {
	fileReader       domain.FileReader
	irWriter         domain.IRWriter
	progressManager  domain.ProgressManager
	parallelExecutor domain.ParallelExecutor
	errorCategorizer domain.ErrorCategorizer
}

// LowerUseCaseBuilder builds a LowerUseCase, filling in service defaults for
// anything the caller doesn't supply.
type LowerUseCaseBuilder struct {
	fileReader       domain.FileReader
	irWriter         domain.IRWriter
	progressManager  domain.ProgressManager
	parallelExecutor domain.ParallelExecutor
	errorCategorizer domain.ErrorCategorizer
}

// NewLowerUseCaseBuilder creates a new builder.
func NewLowerUseCaseBuilder() *LowerUseCaseBuilder {
	return &LowerUseCaseBuilder{}
}

func (b *LowerUseCaseBuilder) WithFileReader(fr domain.FileReader) *LowerUseCaseBuilder {
	b.fileReader = fr
	return b
}

func (b *LowerUseCaseBuilder) WithIRWriter(w domain.IRWriter) *LowerUseCaseBuilder {
	b.irWriter = w
	return b
}

func (b *LowerUseCaseBuilder) WithProgressManager(pm domain.ProgressManager) *LowerUseCaseBuilder {
	b.progressManager = pm
	return b
}

func (b *LowerUseCaseBuilder) WithParallelExecutor(pe domain.ParallelExecutor) *LowerUseCaseBuilder {
	b.parallelExecutor = pe
	return b
}

func (b *LowerUseCaseBuilder) WithErrorCategorizer(ec domain.ErrorCategorizer) *LowerUseCaseBuilder {
	b.errorCategorizer = ec
	return b
}

// Build assembles the LowerUseCase.
func (b *LowerUseCaseBuilder) Build() (*LowerUseCase, error) {
	if b.fileReader == nil {
		return nil, fmt.Errorf("file reader is required")
	}
	if b.irWriter == nil {
		b.irWriter = service.NewFileOutputWriter(os.Stderr)
	}
	if b.progressManager == nil {
		b.progressManager = service.NewProgressManager()
	}
	if b.parallelExecutor == nil {
		b.parallelExecutor = service.NewParallelExecutor()
	}
	if b.errorCategorizer == nil {
		b.errorCategorizer = service.NewErrorCategorizer()
	}

	return &LowerUseCase{
		fileReader:       b.fileReader,
		irWriter:         b.irWriter,
		progressManager:  b.progressManager,
		parallelExecutor: b.parallelExecutor,
		errorCategorizer: b.errorCategorizer,
	}, nil
}

// fileLowerOutcome is the per-file result of parsing and lowering every
// top-level function it contains.
type fileLowerOutcome struct {
	file    string
	results []domain.FunctionResult
	funcs   []*analyzer.Function
	err     error
}

// Lower parses and lowers every function discovered under req.InputPath,
// then writes the aggregated IR via the configured domain.IRWriter.
func (uc *LowerUseCase) Lower(ctx context.Context, req domain.LowerRequest) (*domain.LowerResponse, error) {
	startTime := time.Now()

	includePatterns := req.IncludePatterns
	if len(includePatterns) == 0 {
		includePatterns = domain.DefaultIncludePatterns()
	}
	excludePatterns := req.ExcludePatterns
	if len(excludePatterns) == 0 {
		excludePatterns = domain.DefaultExcludePatterns()
	}

	files, err := ResolveFilePaths(uc.fileReader, []string{req.InputPath}, true, includePatterns, excludePatterns, true)
	if err != nil {
		return nil, uc.categorize(fmt.Errorf("failed to collect C files: %w", err))
	}
	if len(files) == 0 {
		return nil, uc.categorize(domain.NewInvalidInputError(fmt.Sprintf("no files found under %s", req.InputPath), nil))
	}

	response, err := uc.lowerFiles(ctx, files, req, startTime)
	if err != nil {
		return response, uc.categorize(err)
	}
	return response, nil
}

// LowerFile lowers every top-level function in a single C file.
func (uc *LowerUseCase) LowerFile(ctx context.Context, filePath string, req domain.LowerRequest) (*domain.LowerResponse, error) {
	startTime := time.Now()
	response, err := uc.lowerFiles(ctx, []string{filePath}, req, startTime)
	if err != nil {
		return response, uc.categorize(err)
	}
	return response, nil
}

func (uc *LowerUseCase) lowerFiles(ctx context.Context, files []string, req domain.LowerRequest, startTime time.Time) (*domain.LowerResponse, error) {
	uc.progressManager.Initialize(len(files))
	defer uc.progressManager.Close()

	var mu sync.Mutex
	outcomes := make([]fileLowerOutcome, 0, len(files))

	record := func(o fileLowerOutcome) {
		mu.Lock()
		outcomes = append(outcomes, o)
		mu.Unlock()
	}

	maxWorkers := req.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = domain.DefaultMaxWorkers
	}

	if req.Parallel && len(files) > 1 {
		uc.parallelExecutor.SetMaxConcurrency(maxWorkers)
		tasks := make([]domain.ExecutableTask, 0, len(files))
		for _, f := range files {
			file := f
			tasks = append(tasks, service.NewSimpleTask(file, true, func(taskCtx context.Context) (interface{}, error) {
				uc.progressManager.StartTask(file)
				outcome := uc.lowerOneFile(taskCtx, file)
				uc.progressManager.CompleteTask(file, outcome.err == nil)
				record(outcome)
				return nil, nil
			}))
		}
		if err := uc.parallelExecutor.Execute(ctx, tasks); err != nil {
			return nil, fmt.Errorf("lowering failed: %w", err)
		}
	} else {
		for _, file := range files {
			uc.progressManager.StartTask(file)
			outcome := uc.lowerOneFile(ctx, file)
			uc.progressManager.CompleteTask(file, outcome.err == nil)
			record(outcome)
		}
	}

	response := uc.buildResponse(outcomes, startTime)

	outputPath := req.OutputPath
	if outputPath == "" && len(files) == 1 {
		outputPath = defaultOutputPath(files[0])
	}
	response.OutputPath = outputPath

	if err := uc.writeIR(response, outcomes, req); err != nil {
		return response, err
	}

	var firstErr error
	for _, o := range outcomes {
		if o.err != nil {
			firstErr = fmt.Errorf("failed to process %s: %w", o.file, o.err)
			break
		}
	}
	return response, firstErr
}

func (uc *LowerUseCase) lowerOneFile(ctx context.Context, file string) fileLowerOutcome {
	content, err := uc.fileReader.ReadFile(file)
	if err != nil {
		return fileLowerOutcome{file: file, err: domain.NewFileNotFoundError(file, err)}
	}

	p := parser.New()
	defer p.Close()

	parsed, err := p.Parse(ctx, content)
	if err != nil {
		return fileLowerOutcome{file: file, err: domain.NewParseError(file, err)}
	}

	defs := parser.FindFunctionDefs(parsed.Root)
	results := make([]domain.FunctionResult, 0, len(defs))
	funcs := make([]*analyzer.Function, 0, len(defs))
	for _, def := range defs {
		fn, lowerErr := analyzer.LowerFunctionSafely(def)
		if lowerErr != nil {
			results = append(results, domain.FunctionResult{
				File:   file,
				FuncID: def.Name,
				Err:    domain.NewLowerError(def.Name, lowerErr),
			})
			continue
		}
		results = append(results, domain.FunctionResult{
			File:        file,
			FuncID:      fn.FuncID,
			Diagnostics: fn.Diagnostics,
		})
		funcs = append(funcs, fn)
	}
	return fileLowerOutcome{file: file, results: results, funcs: funcs}
}

func (uc *LowerUseCase) buildResponse(outcomes []fileLowerOutcome, startTime time.Time) *domain.LowerResponse {
	response := &domain.LowerResponse{
		GeneratedAt: time.Now(),
		Duration:    time.Since(startTime),
		Version:     version.Version,
	}
	for _, o := range outcomes {
		response.TotalFiles++
		if o.err != nil {
			response.FailedFuncs++
			response.Results = append(response.Results, domain.FunctionResult{File: o.file, Err: o.err})
			continue
		}
		response.TotalFuncs += len(o.results)
		for _, r := range o.results {
			if r.Err != nil {
				response.FailedFuncs++
			}
		}
		response.Results = append(response.Results, o.results...)
	}
	return response
}

// writeIR writes the gob-encoded IR for every successfully lowered
// function, one record per function in file-then-declaration order, and —
// when requested — an additional human-readable summary alongside it.
func (uc *LowerUseCase) writeIR(response *domain.LowerResponse, outcomes []fileLowerOutcome, req domain.LowerRequest) error {
	err := uc.irWriter.Write(os.Stdout, response.OutputPath, domain.OutputFormatBinary, func(w io.Writer) error {
		for _, o := range outcomes {
			for _, fn := range o.funcs {
				if encErr := analyzer.EncodeFunction(w, fn); encErr != nil {
					return fmt.Errorf("failed to encode function %s: %w", fn.FuncID, encErr)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !req.WriteSummary {
		return nil
	}

	summaryPath := response.OutputPath + ".summary.yaml"
	return uc.irWriter.Write(nil, summaryPath, domain.OutputFormatSummary, func(w io.Writer) error {
		return service.WriteYAML(w, response)
	})
}

func (uc *LowerUseCase) categorize(err error) error {
	if err == nil {
		return nil
	}
	return uc.errorCategorizer.Categorize(err)
}

func defaultOutputPath(inputFile string) string {
	ext := filepath.Ext(inputFile)
	stem := strings.TrimSuffix(inputFile, ext)
	return stem + domain.DefaultOutputExtension
}
