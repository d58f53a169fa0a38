package main

import (
	"fmt"
	"strings"

	"github.com/simaogato/finfolio-backend/internal/adapter/format"
	"github.com/simaogato/finfolio-backend/internal/domain"
	"github.com/simaogato/finfolio-backend/internal/usecase/portfolio"
)

// reportTransactions caps the transactions listed in a report
const reportTransactions = 10

func reportMarkdown(st portfolio.State, cur *format.Currency) string {
	var b strings.Builder

	name := "Portfolio"
	if st.Portfolio != nil {
		name = st.Portfolio.Name
	}
	fmt.Fprintf(&b, "# %s\n\n", escapeCell(name))
	if st.LastError != "" {
		fmt.Fprintf(&b, "> Last refresh failed: %s\n\n", st.LastError)
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| Value | Cost | Gain/Loss | Return |\n")
	b.WriteString("|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %s | %s | %s |\n\n",
		cur.Format(st.Summary.TotalValue),
		cur.Format(st.Summary.TotalCost),
		cur.Signed(st.Summary.TotalGainLoss),
		format.Percent(st.Summary.TotalGainLossPercent),
	)

	b.WriteString("## Holdings\n\n")
	if len(st.Holdings) == 0 {
		b.WriteString("No holdings.\n\n")
	} else {
		b.WriteString("| Symbol | Company | Quantity | Avg Price | Price | Value | Gain/Loss | Return |\n")
		b.WriteString("|---|---|---:|---:|---:|---:|---:|---:|\n")
		for _, h := range st.Holdings {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
				h.Symbol,
				escapeCell(h.CompanyName),
				h.Quantity.String(),
				cur.Format(h.AveragePrice),
				cur.Format(h.CurrentPrice),
				cur.Format(h.TotalValue),
				cur.Signed(h.GainLoss),
				format.Percent(h.GainLossPercent),
			)
		}
		b.WriteString("\n")
	}

	if len(st.Watchlist) > 0 {
		b.WriteString("## Watchlist\n\n")
		b.WriteString("| Symbol | Company | Price | Change | Alert |\n")
		b.WriteString("|---|---|---:|---:|---:|\n")
		for _, w := range st.Watchlist {
			alert := "-"
			if w.AlertPrice != nil {
				alert = cur.Format(*w.AlertPrice)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				w.Symbol, escapeCell(w.CompanyName), cur.Format(w.Price), format.Percent(w.ChangePercent), alert)
		}
		b.WriteString("\n")
	}

	if len(st.Transactions) > 0 {
		b.WriteString("## Recent transactions\n\n")
		b.WriteString("| Date | Type | Symbol | Quantity | Price | Realized |\n")
		b.WriteString("|---|---|---|---:|---:|---:|\n")
		txs := st.Transactions
		if len(txs) > reportTransactions {
			txs = txs[:reportTransactions]
		}
		for _, tx := range txs {
			realized := "-"
			if tx.Type == domain.TransactionTypeSell {
				realized = cur.Signed(tx.RealizedGainLoss)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				tx.TransactionDate.Format("2006-01-02"), tx.Type, tx.Symbol, tx.Quantity.String(), cur.Format(tx.Price), realized)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func quotesMarkdown(list []domain.Quote, cur *format.Currency) string {
	var b strings.Builder
	b.WriteString("| Symbol | Name | Price | Change | Change % | Volume |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|\n")
	for _, q := range list {
		name := escapeCell(q.Name)
		if q.Synthetic {
			name += " *(synthetic)*"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %d |\n",
			q.Symbol, name, cur.Format(q.Price), cur.Signed(q.Change), format.Percent(q.ChangePercent), q.Volume)
	}
	return b.String()
}

func searchMarkdown(query string, results []domain.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Results for %q\n\n", query)
	if len(results) == 0 {
		b.WriteString("No matches.\n")
		return b.String()
	}
	b.WriteString("| Symbol | Name | Region | Currency |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, r := range results {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.Symbol, escapeCell(r.Name), r.Region, r.Currency)
	}
	return b.String()
}

func regionalSearchMarkdown(query string, results []domain.RegionalSearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Results for %q\n\n", query)
	if len(results) == 0 {
		b.WriteString("No matches.\n")
		return b.String()
	}
	b.WriteString("| Symbol | Name | Exchange | Sector |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, r := range results {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.Symbol, escapeCell(r.Name), r.Exchange, escapeCell(r.Sector))
	}
	return b.String()
}
