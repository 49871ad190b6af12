package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"laundryops/internal/common"
	"laundryops/internal/models"
	"laundryops/internal/services"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type orderFlags struct {
	name     string
	email    string
	phone    string
	item     string
	quantity int
	price    string
}

func (f *orderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Customer name")
	cmd.Flags().StringVar(&f.email, "email", "", "Customer email")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Customer phone (optional)")
	cmd.Flags().StringVar(&f.item, "item", "", "Item description")
	cmd.Flags().IntVar(&f.quantity, "quantity", 1, "Number of items")
	cmd.Flags().StringVar(&f.price, "price", "0", "Price per item")
}

func parsePrice(value string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, common.NewValidationError("price_per_item", "price_per_item must be a number")
	}
	return price, nil
}

func parseOrderID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewValidationError("id", "order id must be a positive integer")
	}
	return id, nil
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func newOrderCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newCreateCommand(ctx),
		newListCommand(ctx),
		newShowCommand(ctx),
		newEditCommand(ctx),
		newReadyCommand(ctx),
		newCompleteCommand(ctx),
		newDeleteCommand(ctx),
	}
}

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var flags orderFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a new pending order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := parsePrice(flags.price)
			if err != nil {
				return err
			}
			input := services.OrderInput{
				CustomerName:    flags.name,
				CustomerEmail:   flags.email,
				CustomerPhone:   flags.phone,
				ItemDescription: flags.item,
				Quantity:        flags.quantity,
				PricePerItem:    price,
			}
			return ctx.withOrders(cmd, func(c context.Context, orders services.OrderService) error {
				order, err := orders.Create(c, input)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created order %d for %s, total %s\n",
					order.ID, order.CustomerName, formatMoney(order.TotalPrice))
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withOrders(cmd, func(c context.Context, orders services.OrderService) error {
				list, err := orders.List(c, status)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(list) == 0 {
					fmt.Fprintln(out, "No orders.")
					return nil
				}
				rows := make([][]string, 0, len(list))
				for _, o := range list {
					rows = append(rows, []string{
						strconv.FormatInt(o.ID, 10),
						o.CustomerName,
						o.ItemDescription,
						strconv.Itoa(o.Quantity),
						formatMoney(o.TotalPrice),
						string(o.Status),
						formatTime(o.CreatedAt),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Customer", "Item", "Qty", "Total", "Status", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only orders in this status (pending, ready, completed)")
	return cmd
}

func orderPairs(o *models.Order) [][2]string {
	readyAt := "-"
	if o.ReadyAt != nil {
		readyAt = formatTime(*o.ReadyAt)
	}
	phone := o.CustomerPhone
	if phone == "" {
		phone = "-"
	}
	return [][2]string{
		{"ID", strconv.FormatInt(o.ID, 10)},
		{"Customer", o.CustomerName},
		{"Email", o.CustomerEmail},
		{"Phone", phone},
		{"Item", o.ItemDescription},
		{"Quantity", strconv.Itoa(o.Quantity)},
		{"Price per item", formatMoney(o.PricePerItem)},
		{"Total", formatMoney(o.TotalPrice)},
		{"Status", string(o.Status)},
		{"Created", formatTime(o.CreatedAt)},
		{"Updated", formatTime(o.UpdatedAt)},
		{"Ready", readyAt},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOrderID(args[0])
			if err != nil {
				return err
			}
			return ctx.withOrders(cmd, func(c context.Context, orders services.OrderService) error {
				order, err := orders.GetByID(c, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderPairs(orderPairs(order)))
				return nil
			})
		},
	}
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	var flags orderFlags
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change customer or item details; the total is recomputed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOrderID(args[0])
			if err != nil {
				return err
			}

			var changes services.OrderChanges
			set := cmd.Flags().Changed
			if set("name") {
				changes.CustomerName = &flags.name
			}
			if set("email") {
				changes.CustomerEmail = &flags.email
			}
			if set("phone") {
				changes.CustomerPhone = &flags.phone
			}
			if set("item") {
				changes.ItemDescription = &flags.item
			}
			if set("quantity") {
				changes.Quantity = &flags.quantity
			}
			if set("price") {
				price, err := parsePrice(flags.price)
				if err != nil {
					return err
				}
				changes.PricePerItem = &price
			}

			return ctx.withOrders(cmd, func(c context.Context, orders services.OrderService) error {
				order, err := orders.Update(c, id, changes)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated order %d, total %s\n", order.ID, formatMoney(order.TotalPrice))
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newReadyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ready ID",
		Short: "Mark a pending order ready and notify the customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOrderID(args[0])
			if err != nil {
				return err
			}
			return ctx.withOrders(cmd, func(c context.Context, orders services.OrderService) error {
				order, report, err := orders.MarkReady(c, id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Order %d is ready\n", order.ID)
				if report == nil {
					return nil
				}
				rows := make([][]string, 0, len(report.Outcomes))
				for _, o := range report.Outcomes {
					rows = append(rows, []string{string(o.Type), string(o.Status), o.Detail})
				}
				fmt.Fprintln(out, renderTable([]string{"Channel", "Status", "Detail"}, rows, nil))
				return nil
			})
		},
	}
}

func newCompleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "complete ID",
		Short: "Mark a ready order picked up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOrderID(args[0])
			if err != nil {
				return err
			}
			return ctx.withOrders(cmd, func(c context.Context, orders services.OrderService) error {
				order, err := orders.Complete(c, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Order %d completed\n", order.ID)
				return nil
			})
		},
	}
}

var errDeleteNeedsConfirmation = errors.New("refusing to delete without --yes when stdin is not a terminal")

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an order permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOrderID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				in := cmd.InOrStdin()
				if !isInteractive(in) {
					return errDeleteNeedsConfirmation
				}
				ok, err := confirm(in, cmd.OutOrStdout(), fmt.Sprintf("Delete order %d?", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			return ctx.withOrders(cmd, func(c context.Context, orders services.OrderService) error {
				if err := orders.Delete(c, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted order %d\n", id)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
