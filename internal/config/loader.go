// Package config resolves the compile job from dotenv files, the environment and CLI overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/temirov/compilator/internal/types"
	"github.com/temirov/compilator/internal/utils"
)

const (
	// Keys are matched case-insensitively; AutomaticEnv maps them to SRC, OUT, INCLUDE and EXCLUDE.
	sourceKey  = "src"
	outputKey  = "out"
	includeKey = "include"
	excludeKey = "exclude"

	dotenvConfigType = "env"
	rootSourceName   = "root"
)

var (
	// ErrSourceRequired is reported when SRC is not configured anywhere.
	ErrSourceRequired = errors.New("SRC is not set")
	// ErrSourceMissing is reported when SRC does not exist on disk.
	ErrSourceMissing = errors.New("source path does not exist")
)

// ConfigurationError reports a configuration problem detected before any output is written.
type ConfigurationError struct {
	Key   string
	Value string
	Err   error
}

func (configurationError *ConfigurationError) Error() string {
	if configurationError.Value == "" {
		return fmt.Sprintf("configuration %s: %v", configurationError.Key, configurationError.Err)
	}
	return fmt.Sprintf("configuration %s=%q: %v", configurationError.Key, configurationError.Value, configurationError.Err)
}

func (configurationError *ConfigurationError) Unwrap() error {
	return configurationError.Err
}

// Overrides holds values supplied on the command line. Empty fields are ignored.
type Overrides struct {
	Source  string
	Output  string
	Include []string
	Exclude []string
}

// LoadOptions controls how configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	// ExplicitFilePath replaces the working directory .env; it must exist when set.
	ExplicitFilePath string
	// SkipGlobal disables reading the dotenv file under the user's home directory.
	SkipGlobal bool
	Overrides  Overrides
}

// Load resolves a CompileJob. Sources are layered from lowest to highest priority:
// defaults, the global dotenv file, the local dotenv file, environment variables and overrides.
func Load(options LoadOptions) (types.CompileJob, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return types.CompileJob{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	reader := viper.New()
	reader.SetDefault(outputKey, DefaultOutputTemplate)

	if !options.SkipGlobal {
		if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
			globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.EnvironmentFileName)
			if mergeErr := mergeConfigurationFile(reader, globalPath, false); mergeErr != nil {
				return types.CompileJob{}, mergeErr
			}
		}
	}

	localPath, required := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if mergeErr := mergeConfigurationFile(reader, localPath, required); mergeErr != nil {
		return types.CompileJob{}, mergeErr
	}

	reader.AutomaticEnv()
	applyOverrides(reader, options.Overrides)

	sourceDirectory := strings.TrimSpace(reader.GetString(sourceKey))
	if sourceDirectory == "" {
		return types.CompileJob{}, &ConfigurationError{Key: strings.ToUpper(sourceKey), Err: ErrSourceRequired}
	}
	if _, statErr := os.Stat(sourceDirectory); statErr != nil {
		if os.IsNotExist(statErr) {
			return types.CompileJob{}, &ConfigurationError{Key: strings.ToUpper(sourceKey), Value: sourceDirectory, Err: ErrSourceMissing}
		}
		return types.CompileJob{}, &ConfigurationError{Key: strings.ToUpper(sourceKey), Value: sourceDirectory, Err: statErr}
	}

	outputTemplate := strings.TrimSpace(reader.GetString(outputKey))
	if outputTemplate == "" {
		outputTemplate = DefaultOutputTemplate
	}

	excludeKeywords := append(DefaultExcludeKeywords(), listValue(reader.Get(excludeKey))...)

	return types.CompileJob{
		SourceDirectory: sourceDirectory,
		OutputFile:      ResolveOutputPath(outputTemplate, sourceDirectory),
		Filter: types.FilterRule{
			IncludeExtensions: listValue(reader.Get(includeKey)),
			ExcludeKeywords:   utils.DeduplicatePatterns(excludeKeywords),
		},
	}, nil
}

// ResolveOutputPath substitutes the {SRC} placeholder in template with the base name of
// the resolved source directory. A filesystem root resolves to "root".
func ResolveOutputPath(template string, sourceDirectory string) string {
	if !strings.Contains(template, utils.SourcePlaceholder) {
		return template
	}
	return strings.ReplaceAll(template, utils.SourcePlaceholder, sourceName(sourceDirectory))
}

func sourceName(sourceDirectory string) string {
	absoluteSource, absoluteErr := filepath.Abs(sourceDirectory)
	if absoluteErr != nil {
		return rootSourceName
	}
	if resolvedSource, resolveErr := filepath.EvalSymlinks(absoluteSource); resolveErr == nil {
		absoluteSource = resolvedSource
	}
	baseName := filepath.Base(absoluteSource)
	if baseName == "" || baseName == "." || baseName == string(filepath.Separator) {
		return rootSourceName
	}
	return baseName
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, bool) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, true
		}
		return filepath.Join(workingDirectory, explicitPath), true
	}
	return filepath.Join(workingDirectory, utils.EnvironmentFileName), false
}

// mergeConfigurationFile reads path into a scratch reader and overlays its settings.
// Files named like dotenv files are parsed as such; other files use their extension.
func mergeConfigurationFile(reader *viper.Viper, path string, required bool) error {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return nil
		}
		return fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return fmt.Errorf("configuration path %s is a directory", path)
	}

	fileReader := viper.New()
	fileReader.SetConfigFile(path)
	if isDotenvFile(path) {
		fileReader.SetConfigType(dotenvConfigType)
	}
	if readErr := fileReader.ReadInConfig(); readErr != nil {
		return fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	if mergeErr := reader.MergeConfigMap(fileReader.AllSettings()); mergeErr != nil {
		return fmt.Errorf("merge configuration from %s: %w", path, mergeErr)
	}
	return nil
}

func isDotenvFile(path string) bool {
	baseName := filepath.Base(path)
	extension := filepath.Ext(baseName)
	return strings.HasPrefix(baseName, utils.EnvironmentFileName) || extension == "" || extension == utils.EnvironmentFileName
}

func applyOverrides(reader *viper.Viper, overrides Overrides) {
	if value := strings.TrimSpace(overrides.Source); value != "" {
		reader.Set(sourceKey, value)
	}
	if value := strings.TrimSpace(overrides.Output); value != "" {
		reader.Set(outputKey, value)
	}
	if len(overrides.Include) > 0 {
		reader.Set(includeKey, overrides.Include)
	}
	if len(overrides.Exclude) > 0 {
		reader.Set(excludeKey, overrides.Exclude)
	}
}

// listValue normalizes comma separated strings and structured lists into unique trimmed items.
func listValue(rawValue any) []string {
	if rawValue == nil {
		return nil
	}
	if text, isString := rawValue.(string); isString {
		return utils.SplitList(text)
	}
	items, castErr := cast.ToStringSliceE(rawValue)
	if castErr != nil {
		return utils.SplitList(cast.ToString(rawValue))
	}
	return utils.SplitList(strings.Join(items, ","))
}
