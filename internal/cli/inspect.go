package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/quiz2video/internal/scenario"
)

// newCompositionsCmd lists the compositions a deck exposes.
func newCompositionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compositions",
		Short: "List compositions defined by the deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, _, deck, _, err := a.setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tQUIZZES\tFRAMES\tSIZE\tFPS")
			for _, c := range deck.Compositions() {
				plan, err := deck.Plan(c)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%dx%d\t%d\n", c.ID, len(c.Quizzes), plan.TotalFrames, c.Width, c.Height, c.FPS)
			}
			return w.Flush()
		},
	}
}

// newPlanCmd dumps reveal frames, ticks and offsets of a composition.
func newPlanCmd(a *app) *cobra.Command {
	var composition, out string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the resolved timeline of a composition",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, _, deck, _, err := a.setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			c, err := deck.Composition(composition)
			if err != nil {
				return err
			}
			plan, err := deck.Plan(c)
			if err != nil {
				return err
			}
			report := scenario.NewPlanReport(c.ID, c.FPS, plan)

			if out != "" {
				return scenario.WritePlanReport(report, out)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVarP(&composition, "composition", "c", scenario.CombinedID, "composition id")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the plan to a file instead of stdout")
	return cmd
}

func ensureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
