package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/councilforge/deliberate/pkg/deliberation"
)

// ModesCmd lists the registered deliberation modes and their model-count
// bounds, for operators choosing a mode to drive from the CLI or HTTP API.
type ModesCmd struct{}

func (c *ModesCmd) Run(cli *CLI) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tNAME\tFAMILY\tMIN\tMAX\tMULTI-TURN")
	for _, m := range deliberation.Modes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%v\n", m.ID, m.Name, m.Family, m.MinModels, m.MaxModels, m.SupportsMultiTurn)
	}
	return nil
}
