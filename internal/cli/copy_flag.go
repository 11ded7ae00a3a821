package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	copyFlagTypeName            = "bool"
	copyFlagImplicitValue       = "true"
	copyFlagAssignmentFormat    = "--%s=%t"
	invalidCopyFlagValueMessage = "invalid copy flag value '%s'"
)

// copyFlagLiterals are the values accepted after "--copy=". An empty value enables copying.
var copyFlagLiterals = map[string]bool{
	"":      true,
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
}

// separateCopyFlagWords may follow a bare "--copy" as their own argument. Digits are
// excluded because the argument after PATH is DEPTH: "dirtree . --copy 1" copies a
// depth-1 tree. Short letters are excluded because they are plausible PATH values.
var separateCopyFlagWords = map[string]bool{
	"true":  true,
	"yes":   true,
	"false": false,
	"no":    false,
}

func parseCopyFlagLiteral(input string) (bool, bool) {
	enabled, known := copyFlagLiterals[strings.ToLower(strings.TrimSpace(input))]
	return enabled, known
}

// copyFlagValue is a pflag.Value that accepts the boolean spellings in copyFlagLiterals.
type copyFlagValue struct {
	enabled *bool
}

func (value *copyFlagValue) Set(input string) error {
	enabled, known := parseCopyFlagLiteral(input)
	if value == nil || value.enabled == nil || !known {
		return fmt.Errorf(invalidCopyFlagValueMessage, input)
	}
	*value.enabled = enabled
	return nil
}

func (value *copyFlagValue) String() string {
	return fmt.Sprintf("%t", value != nil && value.enabled != nil && *value.enabled)
}

func (value *copyFlagValue) Type() string {
	return copyFlagTypeName
}

// registerCopyFlag adds --copy to flagSet. A bare --copy enables copying and never
// consumes the following argument, so PATH and DEPTH stay positional.
func registerCopyFlag(flagSet *pflag.FlagSet, enabled *bool) {
	if flagSet == nil || enabled == nil {
		return
	}
	*enabled = false
	copyFlag := flagSet.VarPF(&copyFlagValue{enabled: enabled}, copyFlagName, "", copyFlagDescription)
	copyFlag.NoOptDefVal = copyFlagImplicitValue
}

// normalizeCopyFlagArguments rewrites "--copy <word>" to "--copy=<word>" when word is one
// of separateCopyFlagWords. Any other following argument is left for PATH or DEPTH.
// Arguments after "--" are passed through unchanged.
func normalizeCopyFlagArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == "--" {
			return append(normalized, arguments[index:]...)
		}
		if current == "--"+copyFlagName && index+1 < len(arguments) {
			word := strings.ToLower(strings.TrimSpace(arguments[index+1]))
			if enabled, separate := separateCopyFlagWords[word]; separate {
				normalized = append(normalized, fmt.Sprintf(copyFlagAssignmentFormat, copyFlagName, enabled))
				index++
				continue
			}
		}
		normalized = append(normalized, current)
	}
	return normalized
}
