package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sghaida/odiscope/di"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var raise string

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Simulate one invocation and print its timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := loadPlanFile(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("raise") {
				raise = pf.Target.Raise
			}

			tl := &timeline{}
			reg := buildRegistry(pf, tl, a.options()...)
			out, err := di.Invoke(cmd.Context(), reg, tracingTarget(pf.Target.Name, tl), raise, dependencies(pf.Target.Needs)...)

			w := cmd.OutOrStdout()
			renderTimeline(w, a.styles, pf.Target.Name, tl)
			renderOutcome(w, a.styles, out, err)
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&raise, "raise", "", "make the target fail with this message (overrides target.raise)")
	return cmd
}

func renderTimeline(w io.Writer, s styles, target string, tl *timeline) {
	width := 0
	for _, st := range tl.steps {
		width = max(width, len(st.Slot))
	}

	fmt.Fprintln(w, s.title.Render("run: "+target))
	for _, st := range tl.steps {
		line := fmt.Sprintf("  %s %s %s",
			s.phase(st.Phase).Render(pad(st.Phase, 8)),
			s.slot.Render(pad(st.Slot, width)),
			st.Detail,
		)
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func renderOutcome(w io.Writer, s styles, out string, err error) {
	switch {
	case err != nil:
		fmt.Fprintln(w, s.failure.Render("error: ")+err.Error())
		var te *di.TeardownError
		if errors.As(err, &te) {
			for _, d := range te.Displaced {
				fmt.Fprintln(w, s.warning.Render("  displaced: ")+d.Error())
			}
		}
	case out == "":
		fmt.Fprintln(w, s.success.Render("handled: ")+"target error suppressed by a provider")
	default:
		fmt.Fprintln(w, s.success.Render("result: ")+out)
	}
}
