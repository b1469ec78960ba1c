package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/routegen/internal/cli/config"
	"github.com/conduit-lang/routegen/internal/cli/ui"
	"github.com/conduit-lang/routegen/internal/compiler/codegen"
	cerrors "github.com/conduit-lang/routegen/internal/compiler/errors"
	"github.com/conduit-lang/routegen/internal/utils"
	"github.com/conduit-lang/routegen/internal/watch"
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand(opts *GlobalOptions) *cobra.Command {
	var stdout bool

	cmd := &cobra.Command{
		Use:     "generate [files...]",
		Aliases: []string{"gen", "g"},
		Short:   "Generate Go route files from .routes declarations",
		Long: `Generate a Go file for each .routes declaration.

With no arguments every .routes file under the current directory is
generated. Each output is written next to its declaration as
<name>_gen.go unless output.file is configured. Nothing is written for a
declaration that fails to parse or generate.

Examples:
  routegen generate
  routegen generate api/api.routes
  routegen generate --stdout api/api.routes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if stdout {
				if len(args) != 1 {
					return fmt.Errorf("--stdout requires exactly one .routes file")
				}
				return printGenerated(cmd, opts, args[0])
			}

			for _, arg := range args {
				if filepath.Ext(arg) != utils.RoutesExt {
					warnNotRoutes(cmd.ErrOrStderr(), arg, opts.NoColor)
				}
			}

			ig := watch.NewIncrementalGenerator(".", opts.ConfigFile, opts.Logger())

			var (
				result *watch.GenerateResult
				err    error
			)
			if len(args) == 0 {
				result, err = ig.FullBuild()
			} else {
				result, err = ig.Build(args)
			}

			if result != nil {
				reportResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, opts.NoColor)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the generated source instead of writing it")

	return cmd
}

func printGenerated(cmd *cobra.Command, opts *GlobalOptions, source string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	genOpts := cfg.CodegenOptions(source)
	genOpts.Logger = opts.Logger()
	_, out, err := codegen.GenerateFile(source, genOpts)
	if err != nil {
		writeDiagnostics(cmd.ErrOrStderr(), cerrors.ErrorList{config.Diagnostic(err)})
		return fmt.Errorf("generation failed for %s", source)
	}

	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// reportResult prints one line per generated or skipped declaration, then
// any diagnostics.
func reportResult(out, errOut io.Writer, result *watch.GenerateResult, noColor bool) {
	sources := make([]string, 0, len(result.Generated))
	for source := range result.Generated {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	for _, source := range sources {
		ui.WriteSuccess(out, fmt.Sprintf("%s → %s", source, filepath.Base(result.Generated[source])), noColor)
	}
	for _, source := range result.Skipped {
		fmt.Fprintf(out, "  %s unchanged\n", source)
	}

	if len(result.Errors) > 0 {
		writeDiagnostics(errOut, result.Errors)
		fmt.Fprintln(errOut)
		fmt.Fprint(errOut, failureSummary(result.Errors, noColor))
		return
	}

	dim := color.New(color.FgHiBlack)
	if noColor {
		dim.DisableColor()
	}
	dim.Fprintf(out, "Done in %s\n", result.Duration.Round(time.Millisecond))
}

func writeDiagnostics(w io.Writer, diags cerrors.ErrorList) {
	for i, diag := range diags {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, diag.Format())
	}
}

// failureSummary closes a failed run: a configuration problem blocks every
// declaration, anything else is counted per declaration.
func failureSummary(diags cerrors.ErrorList, noColor bool) string {
	failed, _ := diags.ErrorCount()
	syntax := 0
	for _, diag := range diags {
		if diag.Category == cerrors.CategoryConfig {
			return ui.ConfigError(diag.Message, nil, noColor)
		}
		if diag.IsGrammar() {
			syntax++
		}
	}

	message := fmt.Sprintf("%d declaration(s) not generated", failed)
	if syntax > 0 {
		message = fmt.Sprintf("%s, %d with syntax errors", message, syntax)
	}
	return ui.GenerationError(message, nil, noColor)
}

// warnNotRoutes flags an argument that generate will ignore, suggesting
// similarly named declarations.
func warnNotRoutes(w io.Writer, arg string, noColor bool) {
	candidates, _ := utils.FindRoutesFiles(".")
	suggestions := ui.FindSimilar(arg, candidates, nil)
	fmt.Fprint(w, ui.Warning(fmt.Sprintf("%s is not a %s file and is skipped", arg, utils.RoutesExt), suggestions, noColor))
}

// loadConfig loads the project configuration, reporting a failure on
// stderr the way the other commands do.
func loadConfig(cmd *cobra.Command, opts *GlobalOptions) (*config.Config, error) {
	cfg, err := opts.LoadConfig()
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), nil, opts.NoColor))
		return nil, err
	}
	return cfg, nil
}
