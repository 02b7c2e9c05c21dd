package mailer

import (
	"fmt"
	"html"
	"strings"
)

// ReceiptItem is one purchased line rendered on the receipt.
type ReceiptItem struct {
	Name     string
	Quantity int
	Amount   int64
}

func dollars(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// BuildReceiptHTML renders the purchase confirmation sent after a
// successful charge.
func BuildReceiptHTML(businessName, customerName, orderCode string, items []ReceiptItem, total int64) string {
	var rows strings.Builder
	for _, item := range items {
		rows.WriteString(fmt.Sprintf(
			`<tr><td style="padding:8px;border-bottom:1px solid #eee;">%s</td><td style="padding:8px;border-bottom:1px solid #eee;text-align:center;">%d</td><td style="padding:8px;border-bottom:1px solid #eee;text-align:right;">%s</td></tr>`,
			html.EscapeString(item.Name), item.Quantity, dollars(item.Amount),
		))
	}

	name := customerName
	if name == "" {
		name = "there"
	}

	return fmt.Sprintf(`<div style="font-family:Georgia,serif;max-width:600px;margin:0 auto;color:#2d3a2d;">
  <h1 style="color:#4a7c59;">%s</h1>
  <p>Hi %s,</p>
  <p>Thank you for your purchase! Your order <strong>%s</strong> has been confirmed.</p>
  <table style="width:100%%;border-collapse:collapse;">
    <tr><th style="padding:8px;text-align:left;border-bottom:2px solid #4a7c59;">Item</th><th style="padding:8px;text-align:center;border-bottom:2px solid #4a7c59;">Qty</th><th style="padding:8px;text-align:right;border-bottom:2px solid #4a7c59;">Amount</th></tr>
    %s
    <tr><td colspan="2" style="padding:8px;text-align:right;"><strong>Total</strong></td><td style="padding:8px;text-align:right;"><strong>%s</strong></td></tr>
  </table>
  <p>With gratitude,<br/>%s</p>
</div>`,
		html.EscapeString(businessName),
		html.EscapeString(name),
		html.EscapeString(orderCode),
		rows.String(),
		dollars(total),
		html.EscapeString(businessName),
	)
}

// BuildLowStockHTML renders the restock alert sent to the shop owner.
func BuildLowStockHTML(businessName, productName string, stock, threshold int) string {
	return fmt.Sprintf(`<div style="font-family:Georgia,serif;max-width:600px;margin:0 auto;color:#2d3a2d;">
  <h1 style="color:#b05c2a;">Low Stock Alert</h1>
  <p><strong>%s</strong> is running low.</p>
  <ul>
    <li>Remaining stock: <strong>%d</strong></li>
    <li>Alert threshold: %d</li>
  </ul>
  <p>Restock soon to avoid missed sales.</p>
  <p>- %s</p>
</div>`,
		html.EscapeString(productName), stock, threshold, html.EscapeString(businessName))
}
