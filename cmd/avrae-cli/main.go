// avrae-cli rolls dice from the terminal using the same engine as the bot.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ProperAttorney/avrae/internal/dice"
	"github.com/ProperAttorney/avrae/internal/inline"
	"github.com/ProperAttorney/avrae/internal/logger"
	"github.com/ProperAttorney/avrae/internal/rolls"
	"github.com/ProperAttorney/avrae/internal/version"
)

func main() {
	logger.Init("warn", "text")
	svc := rolls.NewService(logger.L, dice.NewRoller(), nil, inline.DefaultConfig())

	root := &cobra.Command{
		Use:           "avrae-cli",
		Short:         "Roll dice expressions from the command line",
		Version:       version.GetInfo(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(rollCmd(svc), multirollCmd(svc), iterrollCmd(svc), inlineCmd(svc))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rollCmd(svc *rolls.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "roll [expression]",
		Aliases: []string{"r"},
		Short:   "Roll a dice expression (default 1d20)",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := svc.Roll(context.Background(), strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func multirollCmd(svc *rolls.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "multiroll <iterations> <expression>",
		Aliases: []string{"rr"},
		Short:   "Roll an expression multiple times",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			iterations, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("iterations must be a number: %q", args[0])
			}
			input, adv := rolls.StripAdv(strings.Join(args[1:], " "))
			out := svc.RollMany(context.Background(), iterations, input, nil, adv)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func iterrollCmd(svc *rolls.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "iterroll <iterations> <expression> <dc>",
		Aliases: []string{"rrr"},
		Short:   "Roll an expression multiple times against a DC",
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			iterations, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("iterations must be a number: %q", args[0])
			}
			dc, err := strconv.Atoi(args[len(args)-1])
			if err != nil {
				return fmt.Errorf("dc must be a number: %q", args[len(args)-1])
			}
			input, adv := rolls.StripAdv(strings.Join(args[1:len(args)-1], " "))
			out := svc.RollMany(context.Background(), iterations, input, &dc, adv)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func inlineCmd(svc *rolls.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "inline <message>",
		Short: "Evaluate [[...]] expressions inside a chat message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := svc.InlineReply(context.Background(), strings.Join(args, " "))
			if out == "" {
				return fmt.Errorf("no inline expressions found")
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
