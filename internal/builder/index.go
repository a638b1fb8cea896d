package builder

var indexHead = HeadData{
	Title:         "Trading Scripts & Flows | MachineTrader",
	Canonical:     "https://www.machinetrader.io/trading-flows",
	Description:   "Explore trading scripts and automated trading flows on MachineTrader. Build your own algorithmic trading strategies without code.",
	OGDescription: "Explore trading scripts and automated trading flows on MachineTrader.",
}

var indexSections = []IndexSection{
	{
		Title:     "Options Strategies",
		Blurb:     "Defined-risk options spreads with automated execution, position tracking, and P&L analytics.",
		GridClass: "grid grid-cols-1 sm:grid-cols-2 gap-4 mb-16",
		Entries: []IndexEntry{
			{
				Href:        "bear-call-spread-flow.html",
				Name:        "Bear Call Spread",
				Icon:        "📉",
				Description: "Bearish credit spread using call options with automated contract selection and performance tracking.",
				Color:       "red-500",
			},
			{
				Href:        "bear-put-spread-flow.html",
				Name:        "Bear Put Spread",
				Icon:        "📉",
				Description: "Bearish debit spread using put options with defined risk and automated order execution.",
				Color:       "red-500",
			},
		},
	},
	{
		Title:     "Portfolio Strategies",
		Blurb:     "Automated portfolio creation, rebalancing, and performance tracking across multiple asset classes.",
		GridClass: "grid grid-cols-1 sm:grid-cols-2 lg:grid-cols-3 gap-4",
		Entries: []IndexEntry{
			{
				Href:        "bitcoin-etf-portfolio-flow.html",
				Name:        "Bitcoin ETF Portfolio",
				Icon:        "₿",
				Description: "Diversified portfolio of 11 Bitcoin ETFs with automated buy, sell, and performance tracking.",
				Color:       "amber-500",
			},
			{
				Href:        "crypto-portfolio-flow.html",
				Name:        "Crypto Portfolio",
				Icon:        "🪙",
				Description: "Portfolio of 17 cryptocurrency assets with automated management and analytics.",
				Color:       "purple-500",
			},
			{
				Href:        "faang-portfolio-flow.html",
				Name:        "FAANG Portfolio",
				Icon:        "📊",
				Description: "Major tech stock portfolio with position management and performance tracking.",
				Color:       "blue-500",
			},
		},
	},
}

// IndexEntries returns every card on the listing page, in display order.
func IndexEntries() []IndexEntry {
	var out []IndexEntry
	for _, s := range indexSections {
		out = append(out, s.Entries...)
	}
	return out
}
