package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/routegen/internal/cli/ui"
	"github.com/conduit-lang/routegen/internal/utils"
	"github.com/conduit-lang/routegen/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand(opts *GlobalOptions) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate route files when declarations change",
		Long: `Generate every .routes file under the current directory, then watch
them and routegen.yaml. A changed declaration is regenerated on save; a
changed config regenerates every declaration. Files whose inputs are
unchanged are skipped.

Examples:
  routegen watch
  routegen watch --debounce 250ms --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.Logger()
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

			files, err := utils.FindRoutesFiles(".")
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no .routes files found")
			}

			ig := watch.NewIncrementalGenerator(".", opts.ConfigFile, log)
			if result, err := ig.FullBuild(); result != nil {
				reportResult(out, errOut, result, opts.NoColor)
			} else if err != nil {
				return err
			}

			watcher, err := watch.NewFileWatcher(watch.Options{
				Dirs:     watchDirs(files, ig.ConfigFile()),
				Patterns: []string{"*" + utils.RoutesExt, filepath.Base(ig.ConfigFile())},
				Ignored:  []string{"*_gen.go", "*.swp", "*~"},
				Debounce: debounce,
				Logger:   log,
			}, func(changed []string) error {
				log.Debug("rebuilding", zap.Strings("files", changed))
				result, err := ig.Build(changed)
				if result != nil {
					reportResult(out, errOut, result, opts.NoColor)
				}
				return err
			})
			if err != nil {
				return err
			}
			if err := watcher.Start(); err != nil {
				return err
			}

			fmt.Fprint(out, ui.Info(fmt.Sprintf("Watching %d declaration(s). Press Ctrl+C to stop.", len(files)), opts.NoColor))

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			<-sigChan

			if err := watcher.Stop(); err != nil {
				return fmt.Errorf("error stopping watcher: %w", err)
			}
			stopped := color.New(color.FgGreen)
			if opts.NoColor {
				stopped.DisableColor()
			}
			stopped.Fprintln(out, "\nStopped.")
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Wait for writes to settle before regenerating")

	return cmd
}

// watchDirs returns the sorted, distinct directories holding files and the
// config file.
func watchDirs(files []string, configFile string) []string {
	seen := map[string]bool{filepath.Dir(configFile): true}
	for _, file := range files {
		seen[filepath.Dir(file)] = true
	}
	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
