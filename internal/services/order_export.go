package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"laundryops/internal/models"
)

var orderCSVHeader = []string{
	"id", "customer_name", "customer_email", "customer_phone", "item_description",
	"quantity", "price_per_item", "total_price", "status", "created_at", "updated_at", "ready_at",
}

// WriteOrdersCSV writes one row per order. Payments exports are the completed orders.
func WriteOrdersCSV(w io.Writer, orders []*models.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(orderCSVHeader); err != nil {
		return err
	}
	for _, o := range orders {
		readyAt := ""
		if o.ReadyAt != nil {
			readyAt = o.ReadyAt.Format(time.RFC3339)
		}
		record := []string{
			strconv.FormatInt(o.ID, 10),
			o.CustomerName,
			o.CustomerEmail,
			o.CustomerPhone,
			o.ItemDescription,
			strconv.Itoa(o.Quantity),
			o.PricePerItem.StringFixed(2),
			o.TotalPrice.StringFixed(2),
			string(o.Status),
			o.CreatedAt.Format(time.RFC3339),
			o.UpdatedAt.Format(time.RFC3339),
			readyAt,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write orders csv: %w", err)
	}
	return nil
}

func WriteCustomersCSV(w io.Writer, customers []models.Customer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"customer_name", "customer_email", "customer_phone"}); err != nil {
		return err
	}
	for _, c := range customers {
		if err := cw.Write([]string{c.Name, c.Email, c.Phone}); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write customers csv: %w", err)
	}
	return nil
}
