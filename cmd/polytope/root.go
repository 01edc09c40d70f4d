package main

import (
	goflag "flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/chazu/polytope/pkg/config"
	"github.com/chazu/polytope/pkg/engine"
	"github.com/chazu/polytope/pkg/scene"
)

// Execute runs the root command. This is called by main.main().
func Execute() {
	goflag.Parse()
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		glog.Flush()
		os.Exit(1)
	}
}

// cli carries the configuration resolved before a subcommand runs.
type cli struct {
	cfg config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{cfg: config.Default()}
	root := &cobra.Command{
		Use:   "polytope",
		Short: "Generate, planarize and export polytopes",
		Long: `
polytope builds hypercubes, simplices, cross-polytopes and star polygons of
any dimension, evaluates Lisp scene files, splits self-intersecting faces
into simple polygons and exports them as GeoJSON or WKT.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}
	root.PersistentFlags().String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden by POLYTOPE_* environment variables and flags.")
	config.AddFlags(root.PersistentFlags())

	root.AddCommand(
		c.genCmd(),
		c.evalCmd(),
		c.planarizeCmd(),
		c.exportCmd(),
		c.meshCmd(),
	)
	return root
}

func (c *cli) load(cmd *cobra.Command) error {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	file, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(v, file)
	if err != nil {
		return err
	}
	c.cfg = cfg
	glog.V(1).Infof("config: %+v", cfg)
	return nil
}

// readSource reads a Lisp file, or standard input for "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(cmd.InOrStdin())
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(b), nil
}

// scene evaluates the file at path. Warnings go to stderr; errors abort.
func (c *cli) scene(cmd *cobra.Command, path string) (*scene.Scene, error) {
	src, err := readSource(cmd, path)
	if err != nil {
		return nil, err
	}
	res, err := engine.NewEngineWithTimeout(c.cfg.EvalTimeout).EvaluateResult(src)
	if err != nil {
		return nil, errors.Wrapf(err, "evaluating %s", path)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w.Message)
	}
	if len(res.Errors) > 0 {
		msgs := make([]string, len(res.Errors))
		for i, e := range res.Errors {
			msgs[i] = e.Error()
		}
		return nil, errors.Errorf("%s:\n  %s", path, strings.Join(msgs, "\n  "))
	}
	return res.Scene, nil
}
