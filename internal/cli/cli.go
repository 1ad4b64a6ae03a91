// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/compilator/internal/compiler"
	"github.com/temirov/compilator/internal/config"
	"github.com/temirov/compilator/internal/output"
	"github.com/temirov/compilator/internal/services/clipboard"
	"github.com/temirov/compilator/internal/tokenizer"
	"github.com/temirov/compilator/internal/utils"
)

const (
	rootUse              = "compilator"
	rootShortDescription = "compile a source tree into a single text file"
	rootLongDescription  = `compilator walks SRC, writes a directory tree followed by the content of every
included file to OUT and prints a short summary.

Settings are read from ~/.compilator/.env, ./.env (or --env-file), the SRC, OUT,
INCLUDE and EXCLUDE environment variables and finally the flags below, each layer
overriding the previous one. EXCLUDE keywords are added to the built-in exclusions.`
	rootUsageExample = `  # Compile the current project, Go and Python files only
  compilator --src . --include .go,.py

  # Write next to the project and copy the result to the clipboard
  compilator --src ../service --out "build/{SRC}.txt" --copy

  # Report a token estimate for a specific model
  compilator --src . --tokens --model gpt-4o-mini`

	initUse              = "init"
	initShortDescription = "write a .env template"
	initLongDescription  = `Write a commented .env template into the current directory, or into
~/.compilator with --global. Existing files are kept unless --force is given.`

	sourceFlagName      = "src"
	outputFlagName      = "out"
	includeFlagName     = "include"
	excludeFlagName     = "exclude"
	environmentFlagName = "env-file"
	tokensFlagName      = "tokens"
	modelFlagName       = "model"
	copyFlagName        = "copy"
	verboseFlagName     = "verbose"
	versionFlagName     = "version"
	globalFlagName      = "global"
	forceFlagName       = "force"

	sourceFlagDescription      = "source directory (overrides SRC)"
	outputFlagDescription      = "output file, {SRC} expands to the source directory name (overrides OUT)"
	includeFlagDescription     = "file suffix to include, repeatable or comma separated (overrides INCLUDE)"
	excludeFlagDescription     = "path keyword to exclude in addition to the defaults (overrides EXCLUDE)"
	environmentFlagDescription = "dotenv file to read instead of ./.env"
	tokensFlagDescription      = "estimate the token count of included files"
	modelFlagDescription       = "tokenizer model to use for token counting"
	copyFlagDescription        = "copy the compiled text to the clipboard"
	verboseFlagDescription     = "enable debug logging"
	versionFlagDescription     = "display application version"
	globalFlagDescription      = "write the template to ~/.compilator/.env"
	forceFlagDescription       = "overwrite an existing configuration file"

	versionTemplate           = "compilator version: %s\n"
	completionMessageFormat   = "Compilation complete: %s\n"
	initCompleteMessageFormat = "Configuration written to %s\n"
	clipboardFailedMessage    = "failed to copy compiled output to clipboard"
	clipboardCopiedMessage    = "compiled output copied to clipboard"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	verboseLoggerErrorFormat    = "unable to enable verbose logging: %w"
)

// compileOptions stores the flags of the root command.
type compileOptions struct {
	source          string
	output          string
	includes        []string
	excludes        []string
	environmentFile string
	tokensEnabled   bool
	tokenModel      string
	copyEnabled     bool
	verbose         bool
}

// Execute runs the compilator application with the process arguments.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger, clipboard.NewService())
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command. The root command itself performs a compile run.
func createRootCommand(logger *zap.Logger, copier clipboard.Copier) *cobra.Command {
	var showVersion bool
	var options compileOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				return printVersion(command)
			}
			return runCompile(command, options, logger, copier)
		},
	}

	registerBooleanFlag(rootCommand.PersistentFlags(), &showVersion, versionFlagName, false, versionFlagDescription)
	flags := rootCommand.Flags()
	flags.StringVar(&options.source, sourceFlagName, utils.EmptyString, sourceFlagDescription)
	flags.StringVar(&options.output, outputFlagName, utils.EmptyString, outputFlagDescription)
	flags.StringSliceVar(&options.includes, includeFlagName, nil, includeFlagDescription)
	flags.StringSliceVar(&options.excludes, excludeFlagName, nil, excludeFlagDescription)
	flags.StringVar(&options.environmentFile, environmentFlagName, utils.EmptyString, environmentFlagDescription)
	registerBooleanFlag(flags, &options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	flags.StringVar(&options.tokenModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerBooleanFlag(flags, &options.copyEnabled, copyFlagName, false, copyFlagDescription)
	registerBooleanFlag(flags, &options.verbose, verboseFlagName, false, verboseFlagDescription)

	rootCommand.AddCommand(createInitCommand(&showVersion))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand(showVersion *bool) *cobra.Command {
	var globalTarget bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if *showVersion {
				return printVersion(command)
			}
			target := config.InitTargetLocal
			if globalTarget {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initError != nil {
				return initError
			}
			_, printError := fmt.Fprintf(command.OutOrStdout(), initCompleteMessageFormat, writtenPath)
			return printError
		},
	}

	registerBooleanFlag(initCommand.Flags(), &globalTarget, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

func printVersion(command *cobra.Command) error {
	_, printError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
	return printError
}

// runCompile resolves the configuration, compiles the source tree and reports the result.
func runCompile(command *cobra.Command, options compileOptions, logger *zap.Logger, copier clipboard.Copier) error {
	logger = utils.LoggerOrNop(logger)
	if options.verbose {
		verboseLogger, loggerError := utils.NewApplicationLogger(true)
		if loggerError != nil {
			return fmt.Errorf(verboseLoggerErrorFormat, loggerError)
		}
		defer func() { _ = verboseLogger.Sync() }()
		logger = verboseLogger
	}

	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}

	job, loadError := config.Load(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.environmentFile,
		Overrides: config.Overrides{
			Source:  options.source,
			Output:  options.output,
			Include: options.includes,
			Exclude: options.excludes,
		},
	})
	if loadError != nil {
		return loadError
	}
	logger.Debug("configuration resolved",
		zap.String("source", job.SourceDirectory),
		zap.String("output", job.OutputFile),
		zap.Strings("include", job.Filter.IncludeExtensions),
		zap.Strings("exclude", job.Filter.ExcludeKeywords),
	)

	compilerInstance := compiler.NewCompiler(logger)
	if options.tokensEnabled {
		tokenCounter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: options.tokenModel})
		if counterError != nil {
			return counterError
		}
		compilerInstance.TokenCounter = tokenCounter
		compilerInstance.TokenModel = resolvedModel
	}

	result, compileError := compilerInstance.Compile(command.Context(), job)
	if compileError != nil {
		return compileError
	}

	standardOutput := command.OutOrStdout()
	if _, printError := fmt.Fprintf(standardOutput, completionMessageFormat, result.OutputFile); printError != nil {
		return printError
	}
	if _, printError := fmt.Fprintln(standardOutput, output.FormatSummaryLine(result)); printError != nil {
		return printError
	}

	if options.copyEnabled {
		if copyError := clipboard.CopyFile(copier, result.OutputFile); copyError != nil {
			logger.Warn(clipboardFailedMessage, zap.Error(copyError))
		} else {
			logger.Debug(clipboardCopiedMessage, zap.String("path", result.OutputFile))
		}
	}
	return nil
}
