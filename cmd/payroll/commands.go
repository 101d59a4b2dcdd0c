package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/warp/shift-payroll/calendar"
	"github.com/warp/shift-payroll/export"
	"github.com/warp/shift-payroll/payroll"
	"github.com/warp/shift-payroll/session"
)

// =============================================================================
// WORKERS
// =============================================================================

var workerCmd = &cobra.Command{
	Use:     "worker",
	Aliases: []string{"workers"},
	Short:   "Manage workers",
}

var workerAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a worker",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := engine.AddWorker(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Added worker %s (%s)\n", w.Name, w.ID)
		return nil
	},
}

var workerListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		workers, err := store.ListWorkers(cmd.Context())
		if err != nil {
			return err
		}
		if len(workers) == 0 {
			fmt.Println("No workers yet. Add one with: payroll worker add <name>")
			return nil
		}
		for _, w := range workers {
			fmt.Printf("%s  %s\n", w.ID, w.Name)
		}
		return nil
	},
}

// resolveWorker accepts a worker ID or a unique, case-insensitive name.
func resolveWorker(ctx context.Context, ref string) (*session.Worker, error) {
	if ref == "" {
		return nil, fmt.Errorf("--worker is required")
	}
	if w, err := store.GetWorker(ctx, session.WorkerID(ref)); err == nil {
		return w, nil
	}

	workers, err := store.ListWorkers(ctx)
	if err != nil {
		return nil, err
	}
	var match *session.Worker
	for i, w := range workers {
		if !strings.EqualFold(w.Name, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("several workers are named %q, use the ID", ref)
		}
		match = &workers[i]
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", session.ErrWorkerNotFound, ref)
	}
	return match, nil
}

func workerFlag(cmd *cobra.Command) (*session.Worker, error) {
	ref, _ := cmd.Flags().GetString("worker")
	return resolveWorker(cmd.Context(), ref)
}

func monthFlag(cmd *cobra.Command) (calendar.Month, error) {
	s, _ := cmd.Flags().GetString("month")
	if s == "" {
		return calendar.CurrentMonth(), nil
	}
	return calendar.ParseMonth(s)
}

// =============================================================================
// SETTINGS
// =============================================================================

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change salary settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workerFlag(cmd)
		if err != nil {
			return err
		}
		s, err := engine.Settings(cmd.Context(), w.ID)
		if err != nil {
			return err
		}
		printSettings(w, s)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change salary settings; unset flags keep their value",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workerFlag(cmd)
		if err != nil {
			return err
		}
		s, err := engine.Settings(cmd.Context(), w.ID)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("shift") {
			shift, _ := cmd.Flags().GetString("shift")
			start, end, ok := strings.Cut(shift, "-")
			if !ok {
				return fmt.Errorf("invalid shift %q (use HH:MM-HH:MM)", shift)
			}
			st, err := payroll.ParseTimeOfDay(strings.TrimSpace(start))
			if err != nil {
				return err
			}
			en, err := payroll.ParseTimeOfDay(strings.TrimSpace(end))
			if err != nil {
				return err
			}
			s.Shift = &payroll.StandardShift{Start: st, End: en}
		}
		if cmd.Flags().Changed("salary") {
			v, _ := cmd.Flags().GetString("salary")
			if s.BaseSalary, err = decimal.NewFromString(v); err != nil {
				return fmt.Errorf("invalid salary %q", v)
			}
		}
		if cmd.Flags().Changed("days") {
			s.WorkingDays, _ = cmd.Flags().GetInt("days")
		}
		if cmd.Flags().Changed("bonus") {
			v, _ := cmd.Flags().GetString("bonus")
			if s.Bonus, err = decimal.NewFromString(v); err != nil {
				return fmt.Errorf("invalid bonus %q", v)
			}
		}

		calc, err := engine.Dispatch(cmd.Context(), w.ID, calendar.CurrentMonth(), session.SettingsChanged{Settings: s})
		if err != nil {
			return err
		}
		printSettings(w, s)
		printCalculation(calc)
		return nil
	},
}

func printSettings(w *session.Worker, s payroll.Settings) {
	shift := "not set"
	if s.Shift != nil {
		shift = fmt.Sprintf("%s (%s h)", s.Shift, s.Shift.Duration().StringFixed(1))
	}
	fmt.Printf("%s | Shift: %s | Salary: %s | Working days: %d | Bonus: %s\n",
		w.Name, shift, s.BaseSalary.StringFixed(2), s.WorkingDays, s.Bonus.StringFixed(2))
	if err := s.Validate(); err != nil {
		fmt.Printf("Payroll cannot be computed: %v\n", err)
		return
	}
	fmt.Printf("Hourly rate: %s\n", s.HourlyRate().StringFixed(2))
}

// =============================================================================
// DAYS
// =============================================================================

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Log or clear worked hours",
}

var daySetCmd = &cobra.Command{
	Use:   "set <date> [start end]",
	Short: "Log hours for a date (HH:MM HH:MM); with only --coef, pick the weekend coefficient",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workerFlag(cmd)
		if err != nil {
			return err
		}
		date, err := calendar.ParseDate(args[0])
		if err != nil {
			return err
		}

		var coef *decimal.Decimal
		if cmd.Flags().Changed("coef") {
			v, _ := cmd.Flags().GetString("coef")
			c, err := decimal.NewFromString(v)
			if err != nil {
				return fmt.Errorf("invalid coefficient %q", v)
			}
			coef = &c
		}

		var ev session.Event
		switch {
		case len(args) == 3:
			ev = session.DayEdited{Date: date, Start: args[1], End: args[2], Coefficient: coef}
		case len(args) == 1 && coef != nil:
			ev = session.CoefficientSelected{Date: date, Coefficient: *coef}
		default:
			return fmt.Errorf("give both start and end, or only --coef")
		}

		calc, err := engine.Dispatch(cmd.Context(), w.ID, date.MonthOf(), ev)
		if err != nil {
			return err
		}
		printCalculation(calc)
		return nil
	},
}

var dayClearCmd = &cobra.Command{
	Use:   "clear <date>",
	Short: "Remove the hours logged for a date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workerFlag(cmd)
		if err != nil {
			return err
		}
		date, err := calendar.ParseDate(args[0])
		if err != nil {
			return err
		}
		calc, err := engine.Dispatch(cmd.Context(), w.ID, date.MonthOf(), session.DayCleared{Date: date})
		if err != nil {
			return err
		}
		printCalculation(calc)
		return nil
	},
}

// =============================================================================
// OVERRIDES
// =============================================================================

var overrideCmd = &cobra.Command{
	Use:   "override",
	Short: "Force or reset the weekend/holiday flag of a date",
}

func overrideToggleCmd(kind calendar.OverrideKind) *cobra.Command {
	return &cobra.Command{
		Use:   string(kind) + " <date> <true|false>",
		Short: fmt.Sprintf("Force the %s flag of a date", kind),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := workerFlag(cmd)
			if err != nil {
				return err
			}
			date, err := calendar.ParseDate(args[0])
			if err != nil {
				return err
			}
			value, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q (use true or false)", args[1])
			}

			ev := session.OverrideToggled{Date: date, Kind: kind, Value: value}
			calc, err := engine.Dispatch(cmd.Context(), w.ID, date.MonthOf(), ev)
			if err != nil {
				return err
			}
			printCalculation(calc)
			return nil
		},
	}
}

var overrideResetCmd = &cobra.Command{
	Use:   "reset [date]",
	Short: "Reset the overrides of a date, or every override when no date is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workerFlag(cmd)
		if err != nil {
			return err
		}

		var ev session.Event = session.AllOverridesReset{}
		month := calendar.CurrentMonth()
		if len(args) == 1 {
			date, err := calendar.ParseDate(args[0])
			if err != nil {
				return err
			}
			ev = session.OverridesReset{Date: date}
			month = date.MonthOf()
		}

		calc, err := engine.Dispatch(cmd.Context(), w.ID, month, ev)
		if err != nil {
			return err
		}
		printCalculation(calc)
		return nil
	},
}

// =============================================================================
// HOLIDAYS
// =============================================================================

var holidayCmd = &cobra.Command{
	Use:     "holiday",
	Aliases: []string{"holidays"},
	Short:   "Official and custom holidays",
}

var holidayAddCmd = &cobra.Command{
	Use:   "add <date> <name>",
	Short: "Add a custom holiday",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := calendar.ParseDate(args[0])
		if err != nil {
			return err
		}
		recurring, _ := cmd.Flags().GetBool("recurring")
		h, err := engine.AddHoliday(cmd.Context(), date, strings.Join(args[1:], " "), recurring)
		if err != nil {
			return err
		}
		fmt.Printf("Added holiday %s on %s (%s)\n", h.Name, h.Date, h.ID)
		return nil
	},
}

var holidayListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the holidays of a year",
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetInt("year")
		if year == 0 {
			year = calendar.Today().Year()
		}
		holidays, err := engine.ListHolidays(cmd.Context(), year)
		if err != nil {
			return err
		}
		for _, h := range holidays {
			marker := ""
			if h.Recurring {
				marker = " (every year)"
			}
			fmt.Printf("%s %s  %s%s  [%s]\n", h.Date, h.Date.Weekday().String()[:3], h.Name, marker, h.ID)
		}
		return nil
	},
}

var holidayDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a custom holiday",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := engine.DeleteHoliday(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted holiday %s\n", args[0])
		return nil
	},
}

// =============================================================================
// PAYROLL
// =============================================================================

var calcCmd = &cobra.Command{
	Use:     "calc",
	Aliases: []string{"payroll"},
	Short:   "Print the payroll of a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workerFlag(cmd)
		if err != nil {
			return err
		}
		month, err := monthFlag(cmd)
		if err != nil {
			return err
		}
		calc, err := engine.Calculate(cmd.Context(), w.ID, month)
		if err != nil {
			return err
		}
		report, err := calc.Report()
		if err != nil {
			fmt.Printf("%s %s: not computed (%v)\n", w.Name, month, err)
			return nil
		}

		fmt.Printf("%s | %s\n", w.Name, month)
		for _, r := range report.Rows {
			fmt.Printf("  %s %-8s %-28s %-6s %10.2f  %s\n",
				r.Date, r.Kind, r.Hours, r.Coefficient, r.Amount, r.Note)
		}
		printSummary(report.Summary)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the payroll of a month as an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workerFlag(cmd)
		if err != nil {
			return err
		}
		month, err := monthFlag(cmd)
		if err != nil {
			return err
		}
		calc, err := engine.Calculate(cmd.Context(), w.ID, month)
		if err != nil {
			return err
		}
		report, err := calc.Report()
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = fmt.Sprintf("payroll-%s-%s.xlsx", strings.ReplaceAll(strings.ToLower(w.Name), " ", "-"), month)
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := export.Write(f, export.Meta{Worker: w.Name, Month: month.String()}, report); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", out)
		return nil
	},
}

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Freeze the payroll of a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workerFlag(cmd)
		if err != nil {
			return err
		}
		month, err := monthFlag(cmd)
		if err != nil {
			return err
		}
		snap, err := engine.CloseMonth(cmd.Context(), w.ID, month, session.SnapshotManual)
		if err != nil {
			return err
		}
		fmt.Printf("Closed %s for %s | Final amount: %s\n", month, w.Name, snap.Summary.FinalAmount.StringFixed(2))
		return nil
	},
}

func printCalculation(calc *session.Calculation) {
	report, err := calc.Report()
	if err != nil {
		fmt.Printf("%s: not computed (%v)\n", calc.Month, err)
		return
	}
	fmt.Printf("%s | Days: %d | Hours: %.1f | Balance: %.1fh | Final: %.2f\n",
		calc.Month, report.Summary.DaysWorked, report.Summary.TotalHours,
		report.Summary.CompensationBalance, report.Summary.FinalAmount)
}

func printSummary(s payroll.SummaryView) {
	fmt.Printf("Hours: %.1f (normal %.1f, overtime %.1f, weekend %.1f, underwork %.1f)\n",
		s.TotalHours, s.NormalHours, s.OvertimeHours, s.WeekendHours, s.UnderworkHours)
	fmt.Printf("Rate: %.2f | Total: %.2f | Bonus: %.2f | Final: %.2f | Balance: %.1fh\n",
		s.HourlyRate, s.TotalAmount, s.Bonus, s.FinalAmount, s.CompensationBalance)
}

func init() {
	workerCmd.AddCommand(workerAddCmd)
	workerCmd.AddCommand(workerListCmd)

	settingsCmd.AddCommand(settingsSetCmd)
	settingsSetCmd.Flags().String("shift", "", "Standard shift, HH:MM-HH:MM")
	settingsSetCmd.Flags().String("salary", "", "Monthly base salary")
	settingsSetCmd.Flags().Int("days", 0, "Working days in the month")
	settingsSetCmd.Flags().String("bonus", "", "Monthly bonus")

	dayCmd.AddCommand(daySetCmd)
	dayCmd.AddCommand(dayClearCmd)
	daySetCmd.Flags().String("coef", "", "Weekend coefficient (1 or 1.5)")

	overrideCmd.AddCommand(overrideToggleCmd(calendar.OverrideWeekend))
	overrideCmd.AddCommand(overrideToggleCmd(calendar.OverrideHoliday))
	overrideCmd.AddCommand(overrideResetCmd)

	holidayCmd.AddCommand(holidayAddCmd)
	holidayCmd.AddCommand(holidayListCmd)
	holidayCmd.AddCommand(holidayDeleteCmd)
	holidayAddCmd.Flags().Bool("recurring", false, "Repeat every year")
	holidayListCmd.Flags().Int("year", 0, "Year (default: current)")

	for _, c := range []*cobra.Command{settingsCmd, dayCmd, overrideCmd, calcCmd, exportCmd, closeCmd} {
		c.PersistentFlags().StringP("worker", "w", "", "Worker ID or name")
	}
	for _, c := range []*cobra.Command{calcCmd, exportCmd, closeCmd} {
		c.Flags().StringP("month", "m", "", "Month, YYYY-MM (default: current)")
	}
	exportCmd.Flags().StringP("out", "o", "", "Output file")
}
