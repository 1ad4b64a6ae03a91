package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName       = "bool"
	toggleFlagImplicitValue  = "true"
	toggleFlagAcceptedValues = "true, false, yes, no, on, off, 1, 0"
	toggleFlagErrorFormat    = "invalid boolean value %q for --%s; accepted values: %s"
)

// toggleWords extends strconv.ParseBool literals with the words people type in shells.
var toggleWords = map[string]bool{
	"yes": true,
	"y":   true,
	"on":  true,
	"no":  false,
	"n":   false,
	"off": false,
}

// parseToggle interprets literal as a boolean. An empty literal means true.
func parseToggle(literal string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(literal))
	if normalized == "" {
		return true, true
	}
	if parsed, known := toggleWords[normalized]; known {
		return parsed, true
	}
	parsed, castError := cast.ToBoolE(normalized)
	if castError != nil {
		return false, false
	}
	return parsed, true
}

// toggleFlag is a pflag.Value accepting "--name", "--name=value" and, after
// normalizeToggleArguments, "--name value".
type toggleFlag struct {
	name   string
	target *bool
}

func (flag *toggleFlag) Set(input string) error {
	parsed, valid := parseToggle(input)
	if !valid {
		return fmt.Errorf(toggleFlagErrorFormat, input, flag.name, toggleFlagAcceptedValues)
	}
	*flag.target = parsed
	return nil
}

func (flag *toggleFlag) String() string {
	if flag.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*flag.target)
}

func (flag *toggleFlag) Type() string {
	return toggleFlagTypeName
}

// registerBooleanFlag binds a toggle flag called name to target on flagSet.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&toggleFlag{name: name, target: target}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = toggleFlagImplicitValue
}

// normalizeBooleanFlagArguments joins "--flag value" pairs into "--flag=value" when
// flag is a boolean flag of command or its subcommands and value is a boolean literal.
// Anything after "--" is left untouched.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	toggleNames := map[string]struct{}{}
	collectToggleNames(command, toggleNames)
	if len(toggleNames) == 0 {
		return arguments
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			return append(normalized, arguments[index:]...)
		}
		name, isLongFlag := strings.CutPrefix(argument, "--")
		_, isToggle := toggleNames[name]
		if isLongFlag && isToggle && index+1 < len(arguments) {
			next := arguments[index+1]
			if _, valid := parseToggle(next); valid && next != "" && !strings.HasPrefix(next, "-") {
				normalized = append(normalized, argument+"="+next)
				index++
				continue
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func collectToggleNames(command *cobra.Command, names map[string]struct{}) {
	record := func(flag *pflag.Flag) {
		if flag.Value.Type() == toggleFlagTypeName {
			names[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(record)
	command.Flags().VisitAll(record)
	for _, child := range command.Commands() {
		collectToggleNames(child, names)
	}
}
