package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// literalArgs makes cmd take keys and values verbatim. Flags the command
// knows are parsed only ahead of the first argument, and "--" ends them.
// From the first argument on nothing is a flag, so "-5" or "-k" is data.
// The command's Args validator and RunE see only the positional arguments.
func (a *app) literalArgs(cmd *cobra.Command) *cobra.Command {
	validate, run := cmd.Args, cmd.RunE
	cmd.DisableFlagParsing = true
	cmd.Args = cobra.ArbitraryArgs
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		flagArgs, positional := splitLeadingFlags(cmd.Flags(), args)
		if err := cmd.Flags().Parse(flagArgs); err != nil {
			return err
		}
		if help, _ := cmd.Flags().GetBool("help"); help {
			return pflag.ErrHelp
		}
		if validate != nil {
			if err := validate(cmd, positional); err != nil {
				return err
			}
		}
		if err := a.setup(cmd); err != nil {
			return err
		}
		return run(cmd, positional)
	}
	return cmd
}

// splitLeadingFlags returns the known flags (with their values) that
// precede the first positional argument, and everything after them.
func splitLeadingFlags(fs *pflag.FlagSet, args []string) (flagArgs, rest []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return flagArgs, args[i+1:]
		}
		f := lookupFlag(fs, arg)
		if f == nil {
			return flagArgs, args[i:]
		}
		flagArgs = append(flagArgs, arg)
		// A value-taking flag without "=" consumes the next argument.
		if f.NoOptDefVal == "" && !strings.Contains(arg, "=") && i+1 < len(args) {
			i++
			flagArgs = append(flagArgs, args[i])
		}
	}
	return flagArgs, nil
}

func lookupFlag(fs *pflag.FlagSet, arg string) *pflag.Flag {
	switch {
	case strings.HasPrefix(arg, "--") && len(arg) > 2:
		name, _, _ := strings.Cut(arg[2:], "=")
		return fs.Lookup(name)
	case strings.HasPrefix(arg, "-") && len(arg) == 2 && arg != "--":
		return fs.ShorthandLookup(arg[1:])
	}
	return nil
}
