package commands

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jask/truckfinder/internal/domain"
	"github.com/jask/truckfinder/internal/format"
	"github.com/jask/truckfinder/internal/store"
)

func ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect and update saved orders",
	}
	cmd.AddCommand(ordersListCmd(), ordersStatusCmd())
	return cmd
}

func ordersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders := appSession.store.Orders()
			if len(orders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No orders.")
				return nil
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), orderTable(orders))
			return err
		},
	}
}

// orderTable renders orders as a static table sized to its content.
func orderTable(orders []domain.Order) string {
	titles := []string{"ID", "STATUS", "WHEN", "FROM", "TO", "AMOUNT"}
	rows := make([]table.Row, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, table.Row{
			o.ID,
			string(o.Status),
			o.Date + " " + o.Time,
			o.PickupAddress,
			o.DeliveryAddress,
			format.Amount(o.Amount),
		})
	}

	cols := make([]table.Column, len(titles))
	for i, title := range titles {
		w := lipgloss.Width(title)
		for _, r := range rows {
			w = max(w, lipgloss.Width(r[i]))
		}
		cols[i] = table.Column{Title: title, Width: w}
	}

	t := table.New(table.WithColumns(cols), table.WithRows(rows))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	// no cursor outside the UI
	styles.Selected = lipgloss.NewStyle()
	t.SetStyles(styles)
	t.SetHeight(len(rows) + lipgloss.Height(styles.Header.Render(titles[0])))
	return t.View()
}

func ordersStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Move an order to a new status",
		Long: "Move an order along pending -> accepted -> in_progress -> completed.\n" +
			"Any order that is not completed can be cancelled.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := domain.ParseOrderStatus(args[1])
			if err != nil {
				return err
			}
			if err := appSession.store.UpdateOrder(args[0], store.OrderPatch{Status: &next}); err != nil {
				return err
			}
			if err := appSession.saved(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], next)
			if n := domain.NextStatuses(next); len(n) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "next: %v\n", n)
			}
			return nil
		},
	}
}
