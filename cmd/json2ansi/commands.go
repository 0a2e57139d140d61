package json2ansi

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/arthur-debert/json2ansi/internal/version"
	"github.com/arthur-debert/json2ansi/pkg/cobrax/topics"
	"github.com/arthur-debert/json2ansi/pkg/compiler"
	"github.com/arthur-debert/json2ansi/pkg/config"
	"github.com/arthur-debert/json2ansi/pkg/document"
	"github.com/arthur-debert/json2ansi/pkg/errors"
	"github.com/arthur-debert/json2ansi/pkg/logging"
	"github.com/arthur-debert/json2ansi/pkg/render"
	"github.com/arthur-debert/json2ansi/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicsFS embed.FS

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbosity  int
	configFile string
}

// config loads the configuration, letting the command's changed flags
// override every other layer.
func (g *globalOptions) config(cmd *cobra.Command) (*config.Config, error) {
	overrides := map[string]interface{}{}
	if f := cmd.Flags().Lookup("width"); f != nil && f.Changed {
		overrides["width"] = f.Value.String()
	}
	if f := cmd.Flags().Lookup("color"); f != nil && f.Changed {
		overrides["color"] = f.Value.String()
	}

	cfg, err := config.Load(config.LoadOptions{File: g.configFile, Overrides: overrides})
	if err != nil {
		return nil, err
	}
	if cfg.Log.File {
		logging.SetupLogger(g.verbosity, true)
	}
	return cfg, nil
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "json2ansi",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity, false)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", MsgFlagConfig)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newRenderCmd(opts))
	rootCmd.AddCommand(newValidateCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	if err := installTopics(rootCmd); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// installTopics wires the embedded help topics into rootCmd.
func installTopics(rootCmd *cobra.Command) error {
	sub, err := fs.Sub(topicsFS, "topics")
	if err != nil {
		return err
	}
	tm, err := topics.New(sub, topics.Options{
		Extensions: []string{".md"},
		Renderer:   topics.NewGlamourRenderer(),
		GroupID:    "misc",
	})
	if err != nil {
		return err
	}
	tm.Install(rootCmd)
	return nil
}

// compileFile loads and compiles path at the configured width.
func compileFile(path string, cfg *config.Config) ([]types.Line, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, err
	}
	lines, err := compiler.Compile(doc, cfg.Width)
	if err != nil {
		if details := errors.GetErrorDetails(err); details != nil {
			details["file"] = path
		}
		return nil, err
	}
	return lines, nil
}

func newRenderCmd(opts *globalOptions) *cobra.Command {
	var (
		width  int
		output string
		color  string
	)

	cmd := &cobra.Command{
		Use:     "render FILE",
		Short:   MsgRenderShort,
		Long:    MsgRenderLong,
		Example: MsgRenderExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			lines, err := compileFile(args[0], cfg)
			if err != nil {
				return err
			}

			if output == "" {
				return render.New(cmd.OutOrStdout(), render.Options{Color: cfg.ColorMode()}).Render(lines)
			}

			// A file is never a terminal, so auto means plain here.
			out, err := render.New(io.Discard, render.Options{Color: cfg.ColorMode()}).String(lines)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, []byte(out), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrOutputWrite, "failed to write %s", output).
					WithDetail("file", output)
			}
			log.Info().Str("path", output).Int("lines", len(lines)).Msg("Wrote output")
			fmt.Fprintf(cmd.ErrOrStderr(), MsgWroteOutput, len(lines), output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 0, MsgFlagWidth)
	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagOutput)
	cmd.Flags().StringVar(&color, "color", "", MsgFlagColor)
	_ = cmd.RegisterFlagCompletionFunc("color", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newValidateCmd(opts *globalOptions) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:     "validate FILE",
		Short:   MsgValidateShort,
		Long:    MsgValidateLong,
		Example: MsgValidateExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			lines, err := compileFile(args[0], cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgValidOK, args[0], len(lines), cfg.Width)
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 0, MsgFlagWidth)
	return cmd
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	var template bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if template {
				fmt.Fprint(cmd.OutOrStdout(), config.GenerateConfigContent())
				return nil
			}
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			out, err := cfg.TOML()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&template, "template", false, MsgFlagTemplate)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionLine, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
