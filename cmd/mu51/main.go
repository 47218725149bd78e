// Command mu51 assembles and runs 8051 assembly source from the command
// line: run to completion, single-step with a register dump, or export
// the assembled ROM as an Intel HEX image.
package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"

	"github.com/binaryblade/mu51/cpu"
	"github.com/binaryblade/mu51/ihex"
)

func loadSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newController(c *cli.Context) (*cpu.Controller, error) {
	var trace = os.Stderr
	var ctrl *cpu.Controller
	if c.Bool("quiet") {
		ctrl = cpu.NewController(nil)
	} else {
		ctrl = cpu.NewController(trace)
	}
	src, err := loadSource(c.String("source"))
	if err != nil {
		return nil, err
	}
	if err := ctrl.Assemble(src); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func printSnapshot(c *cpu.Controller) {
	snap := c.Snapshot()
	fmt.Printf("state: %s  cursor: %d\n", snap.State, snap.Cursor)
	fmt.Printf("A=%02x B=%02x SP=%02x DPTR=%04x PC=%04x bank=%d\n",
		snap.A, snap.B, snap.SP, snap.DPTR, snap.PC, snap.Bank)
	fmt.Printf("flags: %s\n", spew.Sdump(snap.Flags))
}

func runAction(c *cli.Context) error {
	ctrl, err := newController(c)
	if err != nil {
		return err
	}
	if limit := c.Int("max-steps"); limit > 0 {
		if err := ctrl.RunLimited(limit); err != nil {
			return err
		}
	} else if err := ctrl.Run(); err != nil {
		return err
	}
	printSnapshot(ctrl)
	return nil
}

func stepAction(c *cli.Context) error {
	ctrl, err := newController(c)
	if err != nil {
		return err
	}
	steps := c.Int("count")
	if steps <= 0 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		if ctrl.State() == cpu.Done {
			break
		}
		if _, err := ctrl.Step(); err != nil {
			return err
		}
	}
	printSnapshot(ctrl)
	return nil
}

func exportHexAction(c *cli.Context) error {
	ctrl, err := newController(c)
	if err != nil {
		return err
	}
	out := os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return ihex.Dump(out, ctrl.Machine.ROM)
}

func main() {
	sourceFlag := &cli.StringFlag{
		Name:     "source",
		Aliases:  []string{"s"},
		Usage:    "path to an 8051 assembly source file",
		Required: true,
	}
	quietFlag := &cli.BoolFlag{
		Name:  "quiet",
		Usage: "suppress the per-line/per-instruction trace",
	}

	app := &cli.App{
		Name:  "mu51",
		Usage: "assemble and run 8051 assembly programs",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "assemble and run a program to completion",
				Flags: []cli.Flag{
					sourceFlag,
					quietFlag,
					&cli.IntFlag{
						Name:  "max-steps",
						Usage: "stop with an error after this many instructions (0 = unbounded)",
					},
				},
				Action: runAction,
			},
			{
				Name:  "step",
				Usage: "assemble and single-step a program, printing a snapshot",
				Flags: []cli.Flag{
					sourceFlag,
					quietFlag,
					&cli.IntFlag{
						Name:  "count",
						Usage: "number of instructions to step",
						Value: 1,
					},
				},
				Action: stepAction,
			},
			{
				Name:  "export-hex",
				Usage: "assemble a program and export its ROM as Intel HEX",
				Flags: []cli.Flag{
					sourceFlag,
					quietFlag,
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "output file (defaults to stdout)",
					},
				},
				Action: exportHexAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
