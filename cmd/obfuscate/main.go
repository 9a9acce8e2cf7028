package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/eko-071/code-obfuscator/pkgs/errors"
	"github.com/eko-071/code-obfuscator/pkgs/lexer"
	"github.com/eko-071/code-obfuscator/pkgs/obfuscate"
	"github.com/eko-071/code-obfuscator/pkgs/watch"
)

// Exit code constants
const (
	ExitSuccess   = 0
	ExitUsage     = 1
	ExitIOError   = 2
	ExitTransform = 3
)

type runOptions struct {
	inputPath  string
	outputPath string
	showMap    bool
	seed       int64
	seedSet    bool
	watchMode  bool
}

func main() {
	var (
		outputPath string
		levelName  string
		showMap    bool
		listLevels bool
		seed       int64
		watchMode  bool
	)

	rootCmd := &cobra.Command{
		Use:           "obfuscate [file]",
		Short:         "Obfuscate C source code",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listLevels {
				printLevels(cmd.OutOrStdout())
				return nil
			}
			opts := runOptions{
				outputPath: outputPath,
				showMap:    showMap,
				seed:       seed,
				seedSet:    cmd.Flags().Changed("seed"),
				watchMode:  watchMode,
			}
			if len(args) > 0 {
				opts.inputPath = args[0]
			}
			return run(opts, levelName)
		},
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write output to a file instead of stdout")
	rootCmd.Flags().StringVarP(&levelName, "level", "l", "moderate", "Obfuscation level: mild, moderate, extreme")
	rootCmd.Flags().BoolVar(&showMap, "map", false, "Print the identifier rename map to stderr")
	rootCmd.Flags().BoolVar(&listLevels, "levels", false, "List obfuscation levels and exit")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for reproducible output")
	rootCmd.Flags().BoolVar(&watchMode, "watch", false, "Re-obfuscate whenever the input file changes")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func run(opts runOptions, levelName string) error {
	level, err := obfuscate.ParseLevel(levelName)
	if err != nil {
		return errors.NewUsageError(err.Error())
	}

	var pipelineOpts []obfuscate.Option
	if opts.seedSet {
		pipelineOpts = append(pipelineOpts, obfuscate.WithSeed(opts.seed))
	}

	if opts.watchMode {
		return runWatch(opts, level, pipelineOpts)
	}

	source, err := readInput(opts.inputPath)
	if err != nil {
		return err
	}
	return obfuscateOnce(source, opts, level, pipelineOpts)
}

func obfuscateOnce(source string, opts runOptions, level obfuscate.Level, pipelineOpts []obfuscate.Option) error {
	result, err := obfuscate.Transform(source, level, pipelineOpts...)
	if err != nil {
		return err
	}
	if err := writeOutput(opts.outputPath, result.Output); err != nil {
		return err
	}
	if opts.showMap {
		printRenameMap(os.Stderr, result.Renames)
	}
	return nil
}

func runWatch(opts runOptions, level obfuscate.Level, pipelineOpts []obfuscate.Option) error {
	if opts.inputPath == "" || opts.inputPath == "-" {
		return errors.NewUsageError("watch mode requires a file argument")
	}
	if opts.outputPath == "" {
		return errors.NewUsageError("watch mode requires --output")
	}

	once := func() {
		source, err := readInput(opts.inputPath)
		if err == nil {
			err = obfuscateOnce(source, opts, level, pipelineOpts)
		}
		if err != nil {
			// Keep watching; the next edit may fix it.
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	w, err := watch.New(opts.inputPath)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	once()
	fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)\n", opts.inputPath)

	err = w.Run(ctx, once)
	if ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "\nStopped watching.")
		return nil
	}
	return err
}

// readInput handles the 3 modes of input:
// 1. Explicit stdin with "-"
// 2. Piped input (auto-detected when no file argument is given)
// 3. File input
func readInput(path string) (string, error) {
	if path == "-" || (path == "" && hasPipedInput()) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.NewInputError("stdin", err)
		}
		return string(data), nil
	}

	if path == "" {
		return "", errors.NewUsageError("no input: provide a file argument or pipe source to stdin")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewInputError(path, err)
	}
	return string(data), nil
}

// hasPipedInput detects if there's data piped to stdin
func hasPipedInput() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	// Check if stdin is not a character device (i.e., it's piped)
	return (stat.Mode() & os.ModeCharDevice) == 0
}

func writeOutput(path, output string) error {
	if path == "" {
		fmt.Print(output)
		return nil
	}
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return errors.NewOutputError(path, err)
	}
	fmt.Printf("Written to %s\n", path)
	return nil
}

func printLevels(w io.Writer) {
	fmt.Fprintf(w, "\nObfuscation levels:\n\n")
	for _, level := range obfuscate.Levels() {
		fmt.Fprintf(w, "  %-8s — %s\n", level.String(), level.Description())
	}
	fmt.Fprintln(w)
}

func printRenameMap(w io.Writer, renames *obfuscate.RenameMap) {
	pairs := renames.Pairs()
	fmt.Fprintf(w, "\n%d identifiers renamed:\n\n", len(pairs))

	width := 0
	for _, pair := range pairs {
		if len(pair.From) > width {
			width = len(pair.From)
		}
	}
	for _, pair := range pairs {
		fmt.Fprintf(w, "  %-*s  →  %s\n", width, pair.From, pair.To)
	}
	fmt.Fprintln(w)
}

// exitCode maps an error to the process exit code: usage problems are 1,
// I/O failures 2, lex and transform failures 3.
func exitCode(err error) int {
	switch {
	case errors.IsErrorType(err, errors.ErrInputRead),
		errors.IsErrorType(err, errors.ErrOutputWrite),
		errors.IsErrorType(err, errors.ErrWatch):
		return ExitIOError
	}

	var lexErr *lexer.LexError
	if stderrors.As(err, &lexErr) {
		return ExitTransform
	}
	var transformErr *obfuscate.TransformError
	if stderrors.As(err, &transformErr) {
		return ExitTransform
	}

	// Everything else, including flag parse failures and bad level names.
	return ExitUsage
}
