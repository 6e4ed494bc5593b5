package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sghaida/odiscope/di"
	"github.com/spf13/cobra"
)

func newPlanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan FILE",
		Short: "Print the resolution order of a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := loadPlanFile(args[0])
			if err != nil {
				return err
			}
			plan, err := buildRegistry(pf, &timeline{}, a.options()...).Plan(dependencies(pf.Target.Needs)...)
			if err != nil {
				return err
			}
			a.logger.Debug("plan built", "file", args[0], "slots", plan.Len())
			renderPlan(cmd.OutOrStdout(), a.styles, pf.Target.Name, plan)
			return nil
		},
	}
}

func renderPlan(w io.Writer, s styles, target string, plan *di.Plan) {
	order := plan.Order()
	width := 0
	for _, slot := range order {
		width = max(width, len(slot))
	}

	fmt.Fprintln(w, s.title.Render("plan: "+target))

	fmt.Fprintln(w, s.muted.Render("enter order"))
	for i, slot := range order {
		line := fmt.Sprintf("  %d. %s", i+1, s.slot.Render(pad(slot, width)))
		if needs := formatDeps(plan.Needs(slot)); needs != "" {
			line += " <- " + needs
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}

	fmt.Fprintln(w, s.muted.Render("teardown order"))
	for i, slot := range plan.Teardown() {
		fmt.Fprintf(w, "  %d. %s\n", i+1, s.slot.Render(slot))
	}

	line := "target " + target
	if direct := formatDeps(plan.Direct()); direct != "" {
		line += " <- " + direct
	}
	fmt.Fprintln(w, line)
}

func formatDeps(ds []di.Dependency) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.Arg + "=" + d.Slot
	}
	return strings.Join(parts, " ")
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
