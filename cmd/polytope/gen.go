package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chazu/polytope/pkg/polytope"
)

var generators = map[string]func(n, step int) (*polytope.Polytope, error){
	"hypercube": func(n, _ int) (*polytope.Polytope, error) { return polytope.Hypercube(n) },
	"simplex":   func(n, _ int) (*polytope.Polytope, error) { return polytope.Simplex(n) },
	"cross":     func(n, _ int) (*polytope.Polytope, error) { return polytope.Cross(n) },
	"polygon":   func(n, _ int) (*polytope.Polytope, error) { return polytope.Polygon(n) },
	"star":      polytope.Star,
}

func (c *cli) genCmd() *cobra.Command {
	var validate bool
	cmd := &cobra.Command{
		Use:   "gen <hypercube|simplex|cross|polygon|star> <n> [step]",
		Short: "Print the element counts of a generated polytope",
		Long: `gen builds a polytope and prints how many elements of each rank it has.
For hypercube, simplex and cross n is the dimension; for polygon and star it
is the number of vertices, and star takes an optional step.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, ok := generators[args[0]]
			if !ok {
				return errors.Errorf("unknown shape %q", args[0])
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrapf(err, "parsing %q", args[1])
			}
			step := 1
			if len(args) == 3 {
				if step, err = strconv.Atoi(args[2]); err != nil {
					return errors.Wrapf(err, "parsing %q", args[2])
				}
			}
			p, err := gen(n, step)
			if err != nil {
				return err
			}
			if validate {
				if errs := p.Validate(); len(errs) > 0 {
					return errs[0]
				}
			}
			printCounts(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&validate, "validate", false, "Check the element lists before printing.")
	return cmd
}

func printCounts(w io.Writer, p *polytope.Polytope) {
	if p.Name != "" {
		fmt.Fprintln(w, p.Name)
	}
	for rank, n := range p.Counts() {
		fmt.Fprintf(w, "%s: %d\n", polytope.ElementName(rank, true), n)
	}
}
