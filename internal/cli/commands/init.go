package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/routegen/internal/cli/config"
	"github.com/conduit-lang/routegen/internal/cli/ui"
	"github.com/conduit-lang/routegen/pkg/openapi"
)

// DefaultPackageVersion is proposed by init when none is given.
const DefaultPackageVersion = "0.1.0"

type initFlags struct {
	dir         string
	name        string
	version     string
	description string
	repository  string
	homepage    string
	specPath    string
	yes         bool
	force       bool
}

// NewInitCommand creates the init command
func NewInitCommand(opts *GlobalOptions) *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a routegen.yaml",
		Long: `Create routegen.yaml with the package metadata written into the
OpenAPI info block. Prompts for each value unless --yes is given.

Examples:
  routegen init
  routegen init --yes --name petstore --version 1.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(flags.dir, config.FileName)
			if _, err := os.Stat(path); err == nil && !flags.force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg, err := initConfig(flags)
			if err != nil {
				return err
			}
			if err := cfg.Settings().Validate(); err != nil {
				return err
			}

			if err := config.Save(path, cfg); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ui.WriteSuccess(out, "Created "+path, opts.NoColor)
			info := color.New(color.FgCyan)
			if opts.NoColor {
				info.DisableColor()
			}
			info.Fprintln(out, "\nNext steps:")
			fmt.Fprintln(out, "  1. List your routes in a .routes file")
			fmt.Fprintln(out, "  2. Run 'routegen generate'")
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.dir, "dir", ".", "Directory to write the config to")
	cmd.Flags().StringVar(&flags.name, "name", "", "Package name (OpenAPI title)")
	cmd.Flags().StringVar(&flags.version, "version", "", "Package version")
	cmd.Flags().StringVar(&flags.description, "description", "", "Package description")
	cmd.Flags().StringVar(&flags.repository, "repository", "", "Repository URL")
	cmd.Flags().StringVar(&flags.homepage, "homepage", "", "Homepage URL")
	cmd.Flags().StringVar(&flags.specPath, "spec-path", openapi.DefaultJSONPath, "Path the document is served at")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Accept flag values and defaults without prompting")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrite an existing config")

	return cmd
}

func initConfig(flags *initFlags) (*config.Config, error) {
	name := flags.name
	if name == "" {
		if abs, err := filepath.Abs(flags.dir); err == nil {
			name = filepath.Base(abs)
		}
	}
	version := flags.version
	if version == "" {
		version = DefaultPackageVersion
	}

	cfg := config.Default()
	cfg.Package = config.PackageConfig{
		Name:        name,
		Version:     version,
		Description: flags.description,
		Repository:  flags.repository,
		Homepage:    flags.homepage,
	}
	cfg.Spec.Path = flags.specPath

	if flags.yes {
		return cfg, nil
	}

	questions := []*survey.Question{
		{
			Name:     "name",
			Prompt:   &survey.Input{Message: "Package name:", Default: cfg.Package.Name},
			Validate: survey.Required,
		},
		{
			Name:     "version",
			Prompt:   &survey.Input{Message: "Version:", Default: cfg.Package.Version},
			Validate: survey.Required,
		},
		{
			Name:   "description",
			Prompt: &survey.Input{Message: "Description (optional):", Default: cfg.Package.Description},
		},
		{
			Name:   "repository",
			Prompt: &survey.Input{Message: "Repository URL (optional):", Default: cfg.Package.Repository},
		},
		{
			Name: "homepage",
			Prompt: &survey.Input{
				Message: "Homepage URL (optional):",
				Default: cfg.Package.Homepage,
				Help:    "Takes precedence over the repository as the document contact",
			},
		},
		{
			Name: "specPath",
			Prompt: &survey.Input{
				Message: "Document path:",
				Default: cfg.Spec.Path,
				Help:    "Paths ending in .yaml or .yml serve YAML",
			},
			Validate: survey.Required,
		},
	}

	answers := struct {
		Name        string
		Version     string
		Description string
		Repository  string
		Homepage    string
		SpecPath    string
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return nil, err
	}

	cfg.Package = config.PackageConfig{
		Name:        answers.Name,
		Version:     answers.Version,
		Description: answers.Description,
		Repository:  answers.Repository,
		Homepage:    answers.Homepage,
	}
	cfg.Spec.Path = answers.SpecPath
	return cfg, nil
}
