package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"laundryops/internal/common"
	"laundryops/internal/models"
	"laundryops/internal/services"

	"github.com/spf13/cobra"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Order counts by status and total revenue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withOrders(cmd, func(c context.Context, orders services.OrderService) error {
				stats, err := orders.Statistics(c)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderPairs([][2]string{
					{"Total orders", strconv.Itoa(stats.TotalOrders)},
					{"Pending", strconv.Itoa(stats.PendingOrders)},
					{"Ready", strconv.Itoa(stats.ReadyOrders)},
					{"Completed", strconv.Itoa(stats.CompletedOrders)},
					{"Total revenue", formatMoney(stats.TotalRevenue)},
				}))
				return nil
			})
		},
	}
}

func newDashboardCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Today's revenue, pending work, new customers and popular items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withOrders(cmd, func(c context.Context, orders services.OrderService) error {
				summary, err := orders.Dashboard(c)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderPairs([][2]string{
					{"Today's revenue", formatMoney(summary.DailyRevenue)},
					{"Pending orders", strconv.Itoa(summary.PendingOrders)},
					{"New customers (24h)", strconv.Itoa(summary.NewCustomers)},
				}))
				if len(summary.PopularItems) == 0 {
					return nil
				}
				rows := make([][]string, 0, len(summary.PopularItems))
				for i, item := range summary.PopularItems {
					rows = append(rows, []string{strconv.Itoa(i + 1), item.Item, strconv.Itoa(item.Orders)})
				}
				fmt.Fprintln(out, renderTable([]string{"#", "Popular item", "Orders"}, rows,
					[]columnAlignment{alignRight, alignLeft, alignRight}))
				return nil
			})
		},
	}
}

func newReportCommand(ctx *commandContext) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Sales totals for orders created between two dates (inclusive)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := common.ValidateDateFormat(from, "from")
			if err != nil {
				return err
			}
			end, err := common.ValidateDateFormat(to, "to")
			if err != nil {
				return err
			}
			return ctx.withOrders(cmd, func(c context.Context, orders services.OrderService) error {
				report, err := orders.SalesReport(c, start, end)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderPairs([][2]string{
					{"From", report.From.Format("2006-01-02")},
					{"To", report.To.Format("2006-01-02")},
					{"Orders", strconv.Itoa(report.TotalOrders)},
					{"Completed", strconv.Itoa(report.CompletedOrders)},
					{"Pending", strconv.Itoa(report.PendingOrders)},
					{"Revenue", formatMoney(report.TotalRevenue)},
				}))
				return nil
			})
		},
	}
	today := time.Now().Format("2006-01-02")
	cmd.Flags().StringVar(&from, "from", today, "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", today, "Last day (YYYY-MM-DD)")
	return cmd
}

var exportKinds = map[string]func(ctx context.Context, orders services.OrderService, w io.Writer) (int, error){
	"orders": func(ctx context.Context, orders services.OrderService, w io.Writer) (int, error) {
		list, err := orders.List(ctx, "")
		if err != nil {
			return 0, err
		}
		return len(list), services.WriteOrdersCSV(w, list)
	},
	"payments": func(ctx context.Context, orders services.OrderService, w io.Writer) (int, error) {
		list, err := orders.List(ctx, string(models.OrderStatusCompleted))
		if err != nil {
			return 0, err
		}
		return len(list), services.WriteOrdersCSV(w, list)
	},
	"customers": func(ctx context.Context, orders services.OrderService, w io.Writer) (int, error) {
		customers, err := orders.Customers(ctx)
		if err != nil {
			return 0, err
		}
		return len(customers), services.WriteCustomersCSV(w, customers)
	},
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:       "export orders|customers|payments",
		Short:     "Write orders, distinct customers or completed orders as CSV",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"orders", "customers", "payments"},
		RunE: func(cmd *cobra.Command, args []string) error {
			write := exportKinds[args[0]]
			return ctx.withOrders(cmd, func(c context.Context, orders services.OrderService) error {
				if outPath == "" || outPath == "-" {
					_, err := write(c, orders, cmd.OutOrStdout())
					return err
				}
				file, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				rows, err := write(c, orders, file)
				if closeErr := file.Close(); err == nil {
					err = closeErr
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d %s to %s\n", rows, args[0], outPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}
