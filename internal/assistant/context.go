package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/towerlens/towerlens/internal/service"
)

// schemaDescription gives the model just enough structure to talk about the
// data without dumping rows into the prompt.
const schemaDescription = `Tower: id, tower_id, name, latitude, longitude, type, height, status
Contract: id, contract_id, tower_id, landlord_id, start_date, end_date, monthly_rate, currency, status
Landlord: id, landlord_id, name, contact_name, email, phone, address
Payment: id, contract_id, payment_date, amount, status, reference_id`

// buildPrompt assembles the full prompt: portfolio counts, payment
// timeframe, schema, recent conversation, then the question. A storage
// failure degrades to an empty data context instead of blocking the answer.
func (e *Engine) buildPrompt(ctx context.Context, question string) string {
	summary, err := e.store.PortfolioSummary(ctx)
	if err != nil {
		slog.Warn("Could not load data context", "error", err)
		summary = &service.PortfolioSummary{}
	}

	var b strings.Builder
	b.WriteString("Available data:\n")
	fmt.Fprintf(&b, "- Towers: %d towers\n", summary.TowerCount)
	fmt.Fprintf(&b, "- Contracts: %d contracts\n", summary.ContractCount)
	fmt.Fprintf(&b, "- Landlords: %d landlords\n", summary.LandlordCount)
	fmt.Fprintf(&b, "- Payments: %s\n", paymentTimeframe(summary))
	b.WriteString("\nSimplified schema:\n")
	b.WriteString(schemaDescription)
	b.WriteString("\n")

	if history := e.recentHistory(); len(history) > 0 {
		b.WriteString("\nPrevious conversation:\n")
		for _, msg := range history {
			fmt.Fprintf(&b, "%s: %s\n\n", strings.ToUpper(msg.Role), msg.Content)
		}
	}

	fmt.Fprintf(&b, "\nUser's question: %q\n\n", question)
	b.WriteString("Provide a clear, concise answer focusing on business insights.")

	return b.String()
}

func paymentTimeframe(summary *service.PortfolioSummary) string {
	if summary.FirstPayment == nil || summary.LastPayment == nil {
		return "No payment data"
	}
	return fmt.Sprintf("%s to %s",
		summary.FirstPayment.Format("2006-01-02"),
		summary.LastPayment.Format("2006-01-02"))
}
