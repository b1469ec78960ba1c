package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/routegen/internal/cli/config"
	"github.com/conduit-lang/routegen/internal/cli/ui"
	"github.com/conduit-lang/routegen/internal/compiler/ast"
	"github.com/conduit-lang/routegen/internal/compiler/codegen"
	cerrors "github.com/conduit-lang/routegen/internal/compiler/errors"
	"github.com/conduit-lang/routegen/internal/compiler/naming"
	"github.com/conduit-lang/routegen/internal/utils"
)

// CheckReport describes one checked declaration
type CheckReport struct {
	File        string                  `json:"file"`
	Mutator     string                  `json:"mutator,omitempty"`
	Routes      []CheckedRoute          `json:"routes"`
	Warnings    []string                `json:"warnings,omitempty"`
	Diagnostics []*cerrors.CompilerError `json:"diagnostics,omitempty"`
}

// CheckedRoute is one route with its derived names
type CheckedRoute struct {
	Ref         string `json:"ref"`
	OperationID string `json:"operation_id"`
	Companion   string `json:"companion"`
}

// NewCheckCommand creates the check command
func NewCheckCommand(opts *GlobalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Validate .routes declarations without writing files",
		Long: `Parse each declaration, derive its operation ids and companion
names, and run generation in memory. Reports qualifiers that look like
misspelled imports.

Examples:
  routegen check
  routegen check --json api/api.routes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(files) == 0 {
				found, err := utils.FindRoutesFiles(".")
				if err != nil {
					return err
				}
				if len(found) == 0 {
					return fmt.Errorf("no .routes files found")
				}
				files = found
			}

			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			reports := make([]CheckReport, 0, len(files))
			failed := 0
			for _, file := range files {
				report := checkFile(cfg, file, opts)
				if cerrors.ErrorList(report.Diagnostics).HasErrors() {
					failed++
				}
				reports = append(reports, report)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return fmt.Errorf("failed to encode report: %w", err)
				}
			} else {
				for i, report := range reports {
					if i > 0 {
						fmt.Fprintln(cmd.OutOrStdout())
					}
					renderReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), report, opts.NoColor)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d declaration(s) failed", failed, len(reports))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")

	return cmd
}

func checkFile(cfg *config.Config, file string, opts *GlobalOptions) CheckReport {
	report := CheckReport{File: file, Routes: []CheckedRoute{}}

	genOpts := cfg.CodegenOptions(file)
	genOpts.Logger = opts.Logger()
	decl, _, err := codegen.GenerateFile(file, genOpts)
	if err != nil {
		report.Diagnostics = append(report.Diagnostics, config.Diagnostic(err))
		return report
	}

	if decl.Mutator != nil {
		report.Mutator = decl.Mutator.String()
	}
	for _, d := range naming.Derive(decl.Routes, cfg.Rule()) {
		report.Routes = append(report.Routes, CheckedRoute{
			Ref:         d.Route.String(),
			OperationID: d.OperationID,
			Companion:   d.Companion.String(),
		})
	}
	report.Warnings = qualifierWarnings(decl, cfg.Imports, opts.NoColor)
	return report
}

// qualifierWarnings flags qualified routes whose first segment is not a
// configured import but is close to one.
func qualifierWarnings(decl *ast.Declaration, imports map[string]string, noColor bool) []string {
	aliases := make([]string, 0, len(imports))
	for alias := range imports {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	paths := decl.Routes
	if decl.Mutator != nil {
		paths = append([]*ast.Path{decl.Mutator}, paths...)
	}

	var warnings []string
	for _, p := range paths {
		qualifier := p.Qualifier()
		if len(qualifier) == 0 {
			continue
		}
		if _, ok := imports[qualifier[0]]; ok {
			continue
		}
		if suggestions := ui.FindSimilar(qualifier[0], aliases, nil); len(suggestions) > 0 {
			warnings = append(warnings, ui.UnknownQualifierWarning(p.String(), qualifier[0], suggestions, noColor))
		}
	}
	return warnings
}

func renderReport(out, errOut io.Writer, report CheckReport, noColor bool) {
	ui.Header(out, report.File, noColor)

	if len(report.Diagnostics) > 0 {
		writeDiagnostics(errOut, report.Diagnostics)
		return
	}

	if report.Mutator != "" {
		kv := ui.NewKeyValueTable(out, noColor)
		kv.AddRow("Mutator", report.Mutator)
		kv.Render()
	}

	table := ui.NewTable(out, []string{"Route", "Operation ID", "Companion"}, &ui.TableOptions{NoColor: noColor})
	for _, r := range report.Routes {
		table.AddRow(r.Ref, r.OperationID, r.Companion)
	}
	table.Render()

	for _, warning := range report.Warnings {
		fmt.Fprint(errOut, warning)
	}
	ui.WriteSuccess(out, fmt.Sprintf("%d route(s) OK", len(report.Routes)), noColor)
}
