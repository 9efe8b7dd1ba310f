package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Naming
	separator string

	// Behavior
	dryRun bool
	useGit bool
	strict bool

	// Output
	showSummary     bool
	outputFile      string
	reportFormat    string
	copyToClipboard bool
	pdfOutputFile   string

	// Interactive Mode
	interactiveMode bool
	showHidden      bool
	noIgnore        bool
	excludePatterns string

	verbose bool
	cfgFile string

	configUsed string // Set by initConfig once a config file was read

	logger = zap.NewNop()
)

// version is the application version, set via ldflags.
var version = "dev"

// errEmptySeparator is returned when the separator was set to the empty string.
var errEmptySeparator = errors.New("separator must not be empty")

// errBatchFailed is returned in strict mode when at least one entry could not be renamed.
var errBatchFailed = errors.New("one or more entries could not be renamed")

// options is the resolved configuration for one run.
type options struct {
	separator   string
	dryRun      bool
	git         bool
	strict      bool
	summary     bool
	file        string
	format      string
	clipboard   bool
	pdf         string
	interactive bool
	filter      candidateFilter
}

var rootCmd = &cobra.Command{
	Use:   "fenum [files...]",
	Short: "Enumerate files by prefixing their position in the argument list.",
	Long: `fenum renames every given path to "<index> - <name>" in the same directory,
where index is the 1-based position of the path in the argument list, zero-padded
to the width of the argument count. Failed renames are reported and skipped.

Flags are recognized anywhere on the command line. Put -- before the paths to
pass names that start with a dash: fenum -- -draft.txt notes.txt`,
	Version:      version,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Encoding = "console"
		config.DisableStacktrace = true
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if viper.GetBool("verbose") {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		built, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = built.With(zap.String("run", uuid.NewString()))
		if configUsed != "" {
			logger.Debug("using config file", zap.String("path", configUsed))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := loadOptions(viper.GetViper())
		if err := opts.validate(); err != nil {
			return err
		}

		entries := args
		if opts.interactive && len(entries) == 0 {
			selected, err := runInteractiveFinder(opts.filter, logger)
			if err != nil {
				return fmt.Errorf("interactive mode: %w", err)
			}
			if selected == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Interactive selection aborted.")
				return nil
			}
			entries = selected
		}

		if len(entries) == 0 {
			printUsage(cmd.OutOrStdout())
			return nil
		}

		return runRename(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, newMover(opts), entries)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		printUsage(cmd.OutOrStdout())
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/fenum/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Naming
	rootCmd.Flags().StringVar(&separator, "separator", defaultSeparator, "Text placed between the index and the original name (must not be empty)")
	viper.BindPFlag("separator", rootCmd.Flags().Lookup("separator"))

	// Behavior
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the mapping without renaming anything")
	viper.BindPFlag("dry_run", rootCmd.Flags().Lookup("dry-run"))
	rootCmd.Flags().BoolVar(&useGit, "git", false, "Stage renames of tracked files in their git work tree")
	viper.BindPFlag("git", rootCmd.Flags().Lookup("git"))
	rootCmd.Flags().BoolVar(&strict, "strict", false, "Exit with status 1 if any entry could not be renamed")
	viper.BindPFlag("strict", rootCmd.Flags().Lookup("strict"))

	// Output
	rootCmd.Flags().BoolVar(&showSummary, "summary", false, "Print a summary line after the mapping")
	viper.BindPFlag("summary", rootCmd.Flags().Lookup("summary"))
	rootCmd.Flags().StringVarP(&outputFile, "file", "f", "", "Also save the report to the specified file")
	viper.BindPFlag("file", rootCmd.Flags().Lookup("file"))
	rootCmd.Flags().StringVar(&reportFormat, "format", "text", "Report format for --file: text or yaml")
	viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
	rootCmd.Flags().BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy the report to the clipboard")
	viper.BindPFlag("clipboard", rootCmd.Flags().Lookup("clipboard"))
	rootCmd.Flags().StringVar(&pdfOutputFile, "pdf", "", "Save the report as PDF")
	viper.BindPFlag("pdf", rootCmd.Flags().Lookup("pdf"))

	// Interactive Mode
	rootCmd.Flags().BoolVar(&interactiveMode, "interactive", false, "Pick the files to enumerate with a fuzzy finder")
	viper.BindPFlag("interactive", rootCmd.Flags().Lookup("interactive"))
	rootCmd.Flags().BoolVar(&showHidden, "hidden", false, "Offer hidden files and directories in the picker")
	viper.BindPFlag("hidden", rootCmd.Flags().Lookup("hidden"))
	rootCmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "Don't respect .gitignore in the picker")
	viper.BindPFlag("no_ignore", rootCmd.Flags().Lookup("no-ignore"))
	rootCmd.Flags().StringVarP(&excludePatterns, "exclude", "e", "", "Patterns to hide from the picker (comma-separated)")
	viper.BindPFlag("exclude", rootCmd.Flags().Lookup("exclude"))

	viper.SetDefault("separator", defaultSeparator)
	viper.SetDefault("format", "text")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	used, err := readConfig(viper.GetViper(), cfgFile)
	if err != nil {
		// Config file was found but another error was produced
		fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
		return
	}
	configUsed = used
}

// readConfig points v at the config file (path, or config.toml in
// ~/.config/fenum) and FENUM_* variables. It returns the file that was read,
// or "" when none was found. The working directory is never searched: it is
// usually the one being renamed and may hold an unrelated config.toml.
func readConfig(v *viper.Viper, path string) (string, error) {
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return "", fmt.Errorf("expanding %s: %w", path, err)
		}
		v.SetConfigFile(expanded)
	} else {
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "fenum"))
		}
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	v.SetEnvPrefix("FENUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv() // FENUM_DRY_RUN, FENUM_SEPARATOR, ...

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", err
	}
	return v.ConfigFileUsed(), nil
}

// loadOptions resolves the run configuration: defaults < config < env < flags.
func loadOptions(v *viper.Viper) options {
	return options{
		separator:   v.GetString("separator"),
		dryRun:      v.GetBool("dry_run"),
		git:         v.GetBool("git"),
		strict:      v.GetBool("strict"),
		summary:     v.GetBool("summary"),
		file:        v.GetString("file"),
		format:      v.GetString("format"),
		clipboard:   v.GetBool("clipboard"),
		pdf:         v.GetString("pdf"),
		interactive: v.GetBool("interactive"),
		filter: candidateFilter{
			showHidden: v.GetBool("hidden"),
			noIgnore:   v.GetBool("no_ignore"),
			excludes:   parsePatterns(v.GetString("exclude")),
		},
	}
}

// validate rejects option combinations that would produce surprising names.
func (o options) validate() error {
	if o.separator == "" {
		return errEmptySeparator
	}
	return nil
}

// newMover picks the filesystem mover for the run.
func newMover(opts options) Mover {
	fs := afero.NewOsFs()
	if opts.git {
		return newGitMover(fs, logger)
	}
	return fs
}

// runRename enumerates entries with mover, streaming the mapping to out.
// Report sink failures go to errOut and never change the result; only strict
// mode turns failed entries into an error.
func runRename(out, errOut io.Writer, opts options, mover Mover, entries []string) error {
	renamer := NewRenamer(mover, opts.separator, opts.dryRun, logger)
	results, summary := renamer.Run(entries, out)

	if opts.summary {
		fmt.Fprintln(out, summaryLine(summary))
	}

	if opts.file != "" {
		if err := saveReport(opts.file, opts.format, results, summary); err != nil {
			fmt.Fprintln(errOut, err)
		} else {
			logger.Debug("report saved", zap.String("path", opts.file), zap.String("format", opts.format))
		}
	}
	if opts.clipboard {
		if err := copyReport(results, summary); err != nil {
			fmt.Fprintln(errOut, err)
		}
	}
	if opts.pdf != "" {
		if err := generatePDF(results, summary, opts.pdf); err != nil {
			fmt.Fprintln(errOut, err)
		}
	}

	if opts.strict && summary.Failed > 0 {
		return errBatchFailed
	}
	return nil
}

// isHelpRequest reports whether the first argument asks for help, in any case.
func isHelpRequest(args []string) bool {
	if len(args) == 0 {
		return false
	}
	first := strings.ToLower(args[0])
	return first == "-h" || first == "--help"
}

func main() {
	if isHelpRequest(os.Args[1:]) {
		printUsage(os.Stdout)
		return
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
