package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pareto-mdp/application"
	"github.com/felixgeelhaar/pareto-mdp/zoo"
)

// policyOptions holds options for the policy command.
type policyOptions struct {
	configPath string
	length     int
	wall       float64
	lex        bool
}

// newPolicyCmd creates the policy command.
func (a *App) newPolicyCmd() *cobra.Command {
	opts := &policyOptions{}

	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Solve Littman's hallway with policy iteration",
		Long: `Solve Littman's hallway with exact policy iteration and print the chosen
action and discounted (goal, wall) value of every state.

By default the worth is goal minus wall. With --lex it reaches the goal
first and avoids the wall second; on this hallway that ordering never
settles and the solve ends at the round bound.

Examples:
  mdp policy --n 5 --p 0.3
  mdp policy --lex`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPolicy(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().IntVar(&opts.length, "n", 5, "Corridor length")
	cmd.Flags().Float64Var(&opts.wall, "p", 0.3, "Wall probability")
	cmd.Flags().BoolVar(&opts.lex, "lex", false, "Use the lexicographic goal-then-wall worth")

	return cmd
}

// runPolicy solves one hallway and prints the policy table.
func (a *App) runPolicy(cmd *cobra.Command, opts *policyOptions) (err error) {
	rt, err := a.setup(opts.configPath)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, rt.close(cmd.Context()))
	}()

	s, err := zoo.PolicyHallway(opts.length, opts.wall)
	if err != nil {
		return err
	}
	if opts.lex {
		s.Worth = zoo.HallwayWorth()
	}

	pi, err := application.NewPolicyIterator[any, string](rt.options()...)
	if err != nil {
		return err
	}

	ctx, cancel := rt.context(cmd.Context())
	defer cancel()

	sol, err := pi.Solve(ctx, s.Model, s.Reward, s.Worth)
	if err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}

	fmt.Fprintf(a.stdout, "%s, worth %s, gamma %g\n", s.Name, s.Worth, pi.Config().Gamma)
	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "state\taction\tvalue")
	for _, st := range s.Model.States() {
		action, ok := sol.Policy(st)
		if !ok {
			action = "-"
		}
		fmt.Fprintf(w, "%v\t%s\t%v\n", st, action, sol.Value(st))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	status := "stable"
	if !sol.Stable() {
		status = "round bound reached"
	}
	fmt.Fprintf(a.stdout, "%d rounds, %s\n", sol.Rounds(), status)
	return nil
}
