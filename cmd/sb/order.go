package main

import (
	"fmt"
	"strings"

	"github.com/amonks/shiftbook/businessday"
	"github.com/amonks/shiftbook/order"
	"github.com/spf13/cobra"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Format pickup orders for email and calendar",
}

var orderComposeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Print the email body of an order",
	Args:  cobra.NoArgs,
	RunE:  runOrderCompose,
}

var orderLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Print an Outlook link that creates the pickup appointment",
	Args:  cobra.NoArgs,
	RunE:  runOrderLink,
}

var orderDayLinkCmd = &cobra.Command{
	Use:   "day-link",
	Short: "Print an Outlook link to the calendar of the day",
	Args:  cobra.NoArgs,
	RunE:  runOrderDayLink,
}

var (
	orderInput order.Order
	orderDate  string
	orderItems []string
	orderHTML  bool
)

func init() {
	rootCmd.AddCommand(orderCmd)
	orderCmd.AddCommand(orderComposeCmd, orderLinkCmd, orderDayLinkCmd)

	for _, cmd := range []*cobra.Command{orderComposeCmd, orderLinkCmd} {
		flags := cmd.Flags()
		flags.StringVar(&orderInput.Customer, "customer", "", "Customer name")
		flags.StringVar(&orderInput.Employee, "employee", "", "Employee taking the order")
		flags.StringVar(&orderInput.Phone, "phone", "", "Customer phone number")
		flags.BoolVar(&orderInput.Paid, "paid", false, "Order is already paid")
		flags.BoolVar(&orderInput.Patisserie, "patisserie", false, "Also send the order to the patisserie")
		flags.StringVar(&orderInput.Time, "time", "", "Pickup time (HH:MM)")
		flags.StringVar(&orderDate, "date", "", "Pickup day (YYYY-MM-DD, defaults to --day)")
		flags.StringArrayVar(&orderItems, "item", nil, "Ordered product (repeatable, or comma separated)")
	}
	orderComposeCmd.Flags().BoolVar(&orderHTML, "html", false, "Print the HTML body")
	orderDayLinkCmd.Flags().StringVar(&orderDate, "date", "", "Day (YYYY-MM-DD, defaults to --day)")
}

// orderDay returns --date, falling back to the viewed day.
func orderDay() (businessday.Key, error) {
	if strings.TrimSpace(orderDate) == "" {
		return current.viewedDay()
	}
	key, err := businessday.ParseKey(strings.TrimSpace(orderDate))
	if err != nil {
		return "", usageError(fmt.Errorf("--date: %w", err))
	}
	return key, nil
}

func buildOrder() (order.Order, error) {
	day, err := orderDay()
	if err != nil {
		return order.Order{}, err
	}
	o := orderInput
	o.Date = day
	o.Items = strings.Join(orderItems, "\n")
	return o, nil
}

func runOrderCompose(cmd *cobra.Command, args []string) error {
	o, err := buildOrder()
	if err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return usageError(err)
	}

	settings, err := current.settings.Recipients()
	if err != nil {
		return err
	}
	body := order.Body(o)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "To: %s\n", strings.Join(order.Recipients(settings, o.Patisserie), ", "))
	fmt.Fprintf(out, "Subject: %s\n\n", strings.TrimSpace(o.Customer))
	if orderHTML {
		fmt.Fprintln(out, body.HTML)
		return nil
	}
	fmt.Fprintln(out, body.Text)
	return nil
}

func runOrderLink(cmd *cobra.Command, args []string) error {
	o, err := buildOrder()
	if err != nil {
		return err
	}
	settings, err := current.settings.Recipients()
	if err != nil {
		return err
	}
	link, err := order.ComposeURL(o, order.Recipients(settings, o.Patisserie), current.orderLoc)
	if err != nil {
		return usageError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), link)
	return nil
}

func runOrderDayLink(cmd *cobra.Command, args []string) error {
	day, err := orderDay()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), order.DayViewURL(day))
	return nil
}
