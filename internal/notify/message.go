package notify

import (
	"fmt"
	"strings"

	"github.com/rudrakh/tiffin/internal/models"
)

// FormatOrder renders the new-order notification message
func FormatOrder(order *models.Order, customerName string) string {
	var b strings.Builder

	b.WriteString("🔔 *New Order Received!*\n")
	b.WriteString("------------------------\n")
	fmt.Fprintf(&b, "🆔 Order ID: #%s\n", order.InvoiceNumber)
	fmt.Fprintf(&b, "👤 Customer: %s\n", customerName)
	fmt.Fprintf(&b, "💰 Amount: ₹%.2f\n", order.TotalAmount)
	fmt.Fprintf(&b, "📦 Status: %s\n\n", order.Status)

	b.WriteString("🛒 *Items:*\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %dx %s\n", item.Quantity, item.Name)
	}

	b.WriteString("\n------------------------\n")
	b.WriteString("_Check the dashboard for more details._")

	return b.String()
}

// FormatDigest renders the periodic profit digest message
func FormatDigest(day string, stats *models.ProfitStats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 *Daily Digest %s*\n", day)
	b.WriteString("------------------------\n")
	fmt.Fprintf(&b, "🧾 Orders: %d (delivered %d, cancelled %d)\n",
		stats.TotalOrderCount, stats.DeliveredOrderCount, stats.CancelledOrderCount)
	fmt.Fprintf(&b, "💰 Income: ₹%.2f\n", stats.TotalIncome)
	fmt.Fprintf(&b, "↩️ Refunds: ₹%.2f\n", stats.TotalRefunds)
	fmt.Fprintf(&b, "🏪 Purchase cost: ₹%.2f\n", stats.TotalPurchaseCost)
	fmt.Fprintf(&b, "📈 Net profit: ₹%.2f", stats.NetProfit)

	return b.String()
}
