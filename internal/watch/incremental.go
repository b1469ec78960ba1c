package watch

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/conduit-lang/routegen/internal/cli/config"
	"github.com/conduit-lang/routegen/internal/compiler/cache"
	"github.com/conduit-lang/routegen/internal/compiler/codegen"
	cerrors "github.com/conduit-lang/routegen/internal/compiler/errors"
	"github.com/conduit-lang/routegen/internal/utils"
)

// IncrementalGenerator regenerates declaration files whose inputs changed.
// Builds are serialized; a Build started while another runs waits for it.
type IncrementalGenerator struct {
	mu         sync.Mutex
	root       string
	configFile string
	cache      *cache.DeclarationCache
	hasher     *cache.FileHasher
	sources    map[string]bool
	log        *zap.Logger
}

// GenerateResult holds the result of a generation pass
type GenerateResult struct {
	Success      bool
	Errors       cerrors.ErrorList
	Duration     time.Duration
	ChangedFiles []string
	Generated    map[string]string // source -> output file
	Skipped      []string
}

// NewIncrementalGenerator creates a generator for the project at root.
// configFile overrides root/routegen.yaml when non-empty.
func NewIncrementalGenerator(root, configFile string, log *zap.Logger) *IncrementalGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	if configFile == "" {
		configFile = filepath.Join(root, config.FileName)
	}
	return &IncrementalGenerator{
		root:       root,
		configFile: configFile,
		cache:      cache.NewDeclarationCache(),
		hasher:     cache.NewFileHasher(),
		sources:    make(map[string]bool),
		log:        log,
	}
}

// ConfigFile returns the configuration file whose changes trigger a full
// regeneration.
func (ig *IncrementalGenerator) ConfigFile() string {
	return ig.configFile
}

// FullBuild discovers every .routes file under root and generates them.
func (ig *IncrementalGenerator) FullBuild() (*GenerateResult, error) {
	files, err := utils.FindRoutesFiles(ig.root)
	if err != nil {
		return nil, fmt.Errorf("failed to find .routes files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .routes files found in %s", ig.root)
	}
	return ig.Build(files)
}

// Build regenerates the given changed files. A change to the configuration
// file regenerates every known declaration. Declarations whose inputs hash
// the same as the last successful run are skipped, as are those whose output
// file already holds the generated bytes.
func (ig *IncrementalGenerator) Build(changedFiles []string) (*GenerateResult, error) {
	ig.mu.Lock()
	defer ig.mu.Unlock()

	start := time.Now()

	result := &GenerateResult{
		Errors:       make(cerrors.ErrorList, 0),
		ChangedFiles: changedFiles,
		Generated:    make(map[string]string),
	}

	targets := ig.targets(changedFiles)
	if len(targets) == 0 {
		result.Success = true
		result.Duration = time.Since(start)
		return result, nil
	}

	cfg, err := ig.loadConfig()
	if err != nil {
		result.Errors = append(result.Errors, config.Diagnostic(err))
		result.Duration = time.Since(start)
		return result, fmt.Errorf("failed to load config: %w", err)
	}

	conflicts := ig.outputConflicts(cfg)
	fail := func(source string, diag *cerrors.CompilerError) {
		ig.cache.Invalidate(source)
		ig.log.Warn("generation failed", zap.String("diagnostic", cerrors.FormatCompact(diag)))
		result.Errors = append(result.Errors, diag)
	}
	for _, source := range targets {
		if conflict, ok := conflicts[source]; ok {
			fail(source, conflict)
			continue
		}
		output, skipped, err := ig.generate(source, cfg)
		if err != nil {
			fail(source, config.Diagnostic(err))
			continue
		}
		if skipped {
			result.Skipped = append(result.Skipped, source)
			continue
		}
		result.Generated[source] = output
	}

	result.Duration = time.Since(start)
	ig.log.Debug("build finished",
		zap.Int("targets", len(targets)),
		zap.Int("cached", ig.cache.Size()),
		zap.Duration("duration", result.Duration))
	if result.Errors.HasErrors() {
		return result, fmt.Errorf("generation failed with %d error(s)", len(result.Errors))
	}
	result.Success = true
	return result, nil
}

func (ig *IncrementalGenerator) targets(changedFiles []string) []string {
	configChanged := false
	for _, file := range changedFiles {
		switch {
		case sameFile(file, ig.configFile):
			configChanged = true
		case filepath.Ext(file) == utils.RoutesExt:
			ig.sources[file] = true
		}
	}

	targets := make([]string, 0, len(ig.sources))
	if configChanged {
		for source := range ig.sources {
			targets = append(targets, source)
		}
	} else {
		for _, file := range changedFiles {
			if filepath.Ext(file) == utils.RoutesExt {
				targets = append(targets, file)
			}
		}
	}
	sort.Strings(targets)
	return dedupe(targets)
}

// outputConflicts reports every known declaration whose output file is also
// the output of another known declaration.
func (ig *IncrementalGenerator) outputConflicts(cfg *config.Config) map[string]*cerrors.CompilerError {
	sources := make([]string, 0, len(ig.sources))
	for source := range ig.sources {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	owners := make(map[string]string, len(sources))
	conflicts := make(map[string]*cerrors.CompilerError)
	for _, source := range sources {
		output, err := filepath.Abs(cfg.OutputFile(source))
		if err != nil {
			output = cfg.OutputFile(source)
		}
		first, taken := owners[output]
		if !taken {
			owners[output] = source
			continue
		}
		if sameFile(first, source) {
			continue
		}
		if _, ok := conflicts[first]; !ok {
			conflicts[first] = cerrors.NewOutputConflict(first, source, output)
		}
		conflicts[source] = cerrors.NewOutputConflict(source, first, output)
	}
	return conflicts
}

func (ig *IncrementalGenerator) generate(source string, cfg *config.Config) (string, bool, error) {
	hash, err := ig.hasher.HashFiles(source, ig.configFile)
	if err != nil {
		return "", false, fmt.Errorf("failed to hash %s: %w", source, err)
	}
	if ig.cache.Unchanged(source, hash) {
		ig.log.Debug("inputs unchanged, skipping", zap.String("source", source))
		return "", true, nil
	}

	opts := cfg.CodegenOptions(source)
	opts.Logger = ig.log
	decl, out, err := codegen.GenerateFile(source, opts)
	if err != nil {
		return "", false, err
	}

	output := cfg.OutputFile(source)
	if current, err := ig.hasher.HashFile(output); err == nil && current == ig.hasher.HashContent(out) {
		ig.cache.Set(source, decl, hash, output)
		ig.log.Debug("output already up to date", zap.String("output", output))
		return "", true, nil
	}
	if err := codegen.WriteFile(output, out); err != nil {
		return "", false, err
	}

	ig.cache.Set(source, decl, hash, output)
	ig.log.Info("generated routes",
		zap.String("source", source),
		zap.String("output", output),
		zap.Int("routes", len(decl.Routes)))
	return output, false, nil
}

func (ig *IncrementalGenerator) loadConfig() (*config.Config, error) {
	if filepath.Base(ig.configFile) == config.FileName {
		return config.Load(filepath.Dir(ig.configFile))
	}
	return config.LoadFile(ig.configFile)
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
