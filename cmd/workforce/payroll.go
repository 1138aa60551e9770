package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/payroll"
	"github.com/spf13/cobra"
)

var (
	payrollMonth    string
	payrollPolicy   string
	payrollSkipIdle bool
)

var payrollCmd = &cobra.Command{
	Use:   "payroll",
	Short: "Print the payroll of one month",
	Long:  `Compute the payroll of one month from the configured store and print it as a table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := setup()
		if err != nil {
			return err
		}

		period := generic.MonthOf(generic.DateOf(time.Now())).PreviousMonth()
		if payrollMonth != "" {
			if period, err = generic.ParseMonth(payrollMonth); err != nil {
				return err
			}
		}
		_, policy := cfg.Payroll.Policies()
		if payrollPolicy != "" {
			var ok bool
			if policy, ok = payroll.ParseStatusPolicy(payrollPolicy); !ok {
				return fmt.Errorf("invalid policy %q (use all or approved)", payrollPolicy)
			}
		}

		st, err := openStore(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init store: %w", err)
		}
		defer st.Close()

		result, err := newHandler(cfg, st).Payroll.Run(ctx, period, payroll.RunOptions{Policy: policy, SkipIdle: payrollSkipIdle})
		if err != nil {
			return err
		}
		return printRun(cmd.OutOrStdout(), result)
	},
}

func init() {
	payrollCmd.Flags().StringVarP(&payrollMonth, "month", "m", "", "month as YYYY-MM (default: previous month)")
	payrollCmd.Flags().StringVarP(&payrollPolicy, "policy", "p", "", "all or approved (default: payroll.report_policy)")
	payrollCmd.Flags().BoolVar(&payrollSkipIdle, "skip-idle", false, "omit employees without minutes")
}

func printRun(out io.Writer, result payroll.RunResult) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Payroll %s (%s)\t\t\t\t\t\t\t\n", result.Period, result.Policy)
	fmt.Fprintln(w, "EMPLOYEE\tRATE\tHOURS\tBASE\tBONUS\tEXTRA\tDISCOUNT\tTOTAL\t")
	for _, l := range result.Lines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			l.Name,
			l.Rate.StringFixed(2),
			hours(l.Totals.TotalMinutes),
			l.Base.StringFixed(2),
			l.Bonus.StringFixed(2),
			l.Extra.StringFixed(2),
			l.Discount.StringFixed(2),
			l.Total.StringFixed(2))
	}
	t := result.Totals
	fmt.Fprintf(w, "TOTAL\t\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
		hours(t.TotalMinutes),
		t.Base.StringFixed(2),
		t.Bonus.StringFixed(2),
		t.Extra.StringFixed(2),
		t.Discount.StringFixed(2),
		t.Net.StringFixed(2))
	return w.Flush()
}

// hours formats minutes as H:MM.
func hours(minutes int64) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}
