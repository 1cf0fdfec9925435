package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/staynest/pricingservice/internal/pricing/domain"
)

var (
	calendarStart string
	calendarEnd   string
)

// calendarCmd represents the calendar command
var calendarCmd = &cobra.Command{
	Use:   "calendar <room-type-id>",
	Short: "Print the resolved price calendar for a room type",
	Example: `  pricingctl calendar deluxe-king --start 2026-09-01 --end 2026-09-30`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCalendar,
}

func init() {
	rootCmd.AddCommand(calendarCmd)

	calendarCmd.Flags().StringVar(&calendarStart, "start", "", "range start (YYYY-MM-DD)")
	calendarCmd.Flags().StringVar(&calendarEnd, "end", "", "range end (YYYY-MM-DD)")
	_ = calendarCmd.MarkFlagRequired("start")
	_ = calendarCmd.MarkFlagRequired("end")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	defer closeStore()

	start, err := domain.ParseDate(calendarStart)
	if err != nil {
		return fmt.Errorf("invalid --start date: %w", err)
	}
	end, err := domain.ParseDate(calendarEnd)
	if err != nil {
		return fmt.Errorf("invalid --end date: %w", err)
	}

	days, err := service.Calendar(context.Background(), args[0], start, end)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tPRICE")
	for _, day := range days {
		fmt.Fprintf(w, "%s\t%d\n", domain.DateKey(day.Date), day.Price)
	}
	return w.Flush()
}
