package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pareto-mdp/application"
	"github.com/felixgeelhaar/pareto-mdp/zoo"
)

// hallwayOptions holds options for the hallway command.
type hallwayOptions struct {
	configPath string
	lengths    []int
	walls      []float64
	twoWay     bool
}

// newHallwayCmd creates the hallway command.
func (a *App) newHallwayCmd() *cobra.Command {
	opts := &hallwayOptions{}

	cmd := &cobra.Command{
		Use:   "hallway",
		Short: "Solve Littman's hallway with Pareto value iteration",
		Long: `Solve Littman's hallway for every combination of corridor length and
wall probability, and print the optimal actions at the start.

The worth prefers reaching the goal first and touching the wall as little
as possible second.

Examples:
  # The default grid
  mdp hallway

  # A single scenario on the two-way hallway
  mdp hallway --n 5 --p 0.3 --two-way

  # Settings from a file
  mdp hallway -c solver.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHallway(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().IntSliceVar(&opts.lengths, "n", []int{2, 4, 6, 8}, "Corridor lengths")
	cmd.Flags().Float64SliceVar(&opts.walls, "p", []float64{0.1, 0.3, 0.5, 0.7, 0.9}, "Wall probabilities")
	cmd.Flags().BoolVar(&opts.twoWay, "two-way", false, "Allow moving back along the hallway")

	return cmd
}

// runHallway solves every scenario of the grid.
func (a *App) runHallway(cmd *cobra.Command, opts *hallwayOptions) (err error) {
	rt, err := a.setup(opts.configPath)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, rt.close(cmd.Context()))
	}()

	build := zoo.Hallway
	if opts.twoWay {
		build = zoo.TwoWayHallway
	}

	vi, err := application.NewValueIterator[any, string](rt.options()...)
	if err != nil {
		return err
	}

	ctx, cancel := rt.context(cmd.Context())
	defer cancel()

	w := tabwriter.NewWriter(a.stdout, 0, 0, 4, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "n\tp\tpolicy(start)\t")
	for _, n := range opts.lengths {
		for _, p := range opts.walls {
			s, err := build(n, p)
			if err != nil {
				return err
			}
			sol, err := vi.Solve(ctx, s.Model, s.Reward, s.Worth)
			if err != nil {
				return fmt.Errorf("%s: %w", s.Name, err)
			}
			fmt.Fprintf(w, "%d\t%.2f\t%v\t\n", n, p, sol.Policy(zoo.Start))
		}
	}
	return w.Flush()
}
