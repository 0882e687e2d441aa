package universe

func f(v float64) *float64 { return &v }

// DefaultInstruments is the built-in UAE and US instrument catalog seeded on
// first startup.
func DefaultInstruments() []Instrument {
	return []Instrument{
		// UAE banks
		{Symbol: "FAB", Name: "First Abu Dhabi Bank", Category: "Banking", Market: MarketUAE, Currency: "AED", RiskLevel: 6, MinInvestment: 1000, DividendYield: f(4.2), IsShariaCompliant: true, Description: "Largest bank in UAE"},
		{Symbol: "ENBD", Name: "Emirates NBD Bank", Category: "Banking", Market: MarketUAE, Currency: "AED", RiskLevel: 6, MinInvestment: 1000, DividendYield: f(3.8), IsShariaCompliant: true, Description: "Leading banking group in the region"},
		{Symbol: "ADCB", Name: "Abu Dhabi Commercial Bank", Category: "Banking", Market: MarketUAE, Currency: "AED", RiskLevel: 6, MinInvestment: 1000, DividendYield: f(4.5), IsShariaCompliant: true, Description: "Major commercial bank in UAE"},

		// UAE real estate
		{Symbol: "EMAAR", Name: "Emaar Properties", Category: "Real Estate", Market: MarketUAE, Currency: "AED", RiskLevel: 7, MinInvestment: 1000, DividendYield: f(2.5), IsShariaCompliant: true, Description: "Leading real estate developer"},
		{Symbol: "ALDAR", Name: "Aldar Properties", Category: "Real Estate", Market: MarketUAE, Currency: "AED", RiskLevel: 7, MinInvestment: 1000, DividendYield: f(3.1), IsShariaCompliant: true, Description: "Abu Dhabi-based property developer"},

		// UAE telecommunications
		{Symbol: "ETISALAT", Name: "Emirates Telecommunications", Category: "Telecommunications", Market: MarketUAE, Currency: "AED", RiskLevel: 5, MinInvestment: 1000, DividendYield: f(5.2), IsShariaCompliant: true, Description: "Leading telecom provider"},
		{Symbol: "DU", Name: "Emirates Integrated Telecommunications", Category: "Telecommunications", Market: MarketUAE, Currency: "AED", RiskLevel: 6, MinInvestment: 1000, DividendYield: f(4.8), IsShariaCompliant: true, Description: "Major telecom operator"},

		// UAE funds
		{Symbol: "UAEETF", Name: "UAE Equity ETF", Category: "ETF", Market: MarketUAE, Currency: "AED", RiskLevel: 6, MinInvestment: 5000, ExpenseRatio: f(0.75), DividendYield: f(2.8), IsShariaCompliant: true, Description: "Tracks UAE stock market index"},
		{Symbol: "GULFFUND", Name: "Gulf Equity Fund", Category: "Mutual Fund", Market: MarketUAE, Currency: "AED", RiskLevel: 7, MinInvestment: 10000, ExpenseRatio: f(1.25), DividendYield: f(2.2), IsShariaCompliant: true, Description: "Invests in GCC markets"},

		// UAE bonds and Islamic instruments
		{Symbol: "UAEGOV5Y", Name: "UAE Government Bond 5Y", Category: "Government Bond", Market: MarketUAE, Currency: "AED", RiskLevel: 2, MinInvestment: 10000, DividendYield: f(3.5), IsShariaCompliant: true, Description: "5-year UAE government bond"},
		{Symbol: "UAEGOV10Y", Name: "UAE Government Bond 10Y", Category: "Government Bond", Market: MarketUAE, Currency: "AED", RiskLevel: 3, MinInvestment: 10000, DividendYield: f(4.2), IsShariaCompliant: true, Description: "10-year UAE government bond"},
		{Symbol: "SUKUK5Y", Name: "UAE Sukuk 5Y", Category: "Islamic Bond", Market: MarketUAE, Currency: "AED", RiskLevel: 3, MinInvestment: 5000, DividendYield: f(3.8), IsShariaCompliant: true, Description: "5-year Sharia-compliant bond"},
		{Symbol: "ISLAMICFUND", Name: "UAE Islamic Equity Fund", Category: "Islamic Fund", Market: MarketUAE, Currency: "AED", RiskLevel: 6, MinInvestment: 5000, ExpenseRatio: f(1.5), DividendYield: f(2.5), IsShariaCompliant: true, Description: "Sharia-compliant equity fund"},

		// Commodities
		{Symbol: "GOLD", Name: "Gold Investment", Category: "Commodity", Market: MarketUAE, Currency: "USD", RiskLevel: 4, MinInvestment: 1000, ExpenseRatio: f(0.5), DividendYield: f(0), IsShariaCompliant: true, Description: "Physical gold investment"},
		{Symbol: "SILVR", Name: "Silver Investment", Category: "Commodity", Market: MarketUAE, Currency: "USD", RiskLevel: 5, MinInvestment: 500, ExpenseRatio: f(0.6), DividendYield: f(0), IsShariaCompliant: true, Description: "Physical silver investment"},

		// US ETFs
		{Symbol: "SPY", Name: "SPDR S&P 500 ETF", Category: "ETF", Market: MarketUS, Currency: "USD", RiskLevel: 6, MinInvestment: 100, ExpenseRatio: f(0.09), DividendYield: f(1.3), Description: "Tracks S&P 500 index"},
		{Symbol: "QQQ", Name: "Invesco QQQ ETF", Category: "ETF", Market: MarketUS, Currency: "USD", RiskLevel: 8, MinInvestment: 100, ExpenseRatio: f(0.20), DividendYield: f(0.5), Description: "Tracks Nasdaq-100 index"},
		{Symbol: "VTI", Name: "Vanguard Total Stock Market ETF", Category: "ETF", Market: MarketUS, Currency: "USD", RiskLevel: 7, MinInvestment: 100, ExpenseRatio: f(0.03), DividendYield: f(1.4), Description: "Total US stock market"},
		{Symbol: "VEA", Name: "Vanguard Developed Markets ETF", Category: "ETF", Market: MarketUS, Currency: "USD", RiskLevel: 7, MinInvestment: 100, ExpenseRatio: f(0.05), DividendYield: f(2.1), Description: "International developed markets"},
		{Symbol: "VWO", Name: "Vanguard Emerging Markets ETF", Category: "ETF", Market: MarketUS, Currency: "USD", RiskLevel: 8, MinInvestment: 100, ExpenseRatio: f(0.10), DividendYield: f(2.8), Description: "Emerging markets"},

		// US bonds
		{Symbol: "TLT", Name: "iShares 20+ Year Treasury Bond ETF", Category: "Bond ETF", Market: MarketUS, Currency: "USD", RiskLevel: 4, MinInvestment: 100, ExpenseRatio: f(0.15), DividendYield: f(2.4), Description: "Long-term US Treasury bonds"},
		{Symbol: "IEF", Name: "iShares 7-10 Year Treasury Bond ETF", Category: "Bond ETF", Market: MarketUS, Currency: "USD", RiskLevel: 3, MinInvestment: 100, ExpenseRatio: f(0.15), DividendYield: f(2.1), Description: "Intermediate-term Treasury bonds"},
		{Symbol: "AGG", Name: "iShares Core US Aggregate Bond ETF", Category: "Bond ETF", Market: MarketUS, Currency: "USD", RiskLevel: 3, MinInvestment: 100, ExpenseRatio: f(0.03), DividendYield: f(2.2), Description: "US aggregate bond market"},

		// US blue chips
		{Symbol: "AAPL", Name: "Apple Inc.", Category: "Technology Stock", Market: MarketUS, Currency: "USD", RiskLevel: 7, MinInvestment: 50, DividendYield: f(0.4), Description: "Technology giant"},
		{Symbol: "MSFT", Name: "Microsoft Corporation", Category: "Technology Stock", Market: MarketUS, Currency: "USD", RiskLevel: 6, MinInvestment: 50, DividendYield: f(0.7), Description: "Software and cloud services"},
		{Symbol: "GOOGL", Name: "Alphabet Inc.", Category: "Technology Stock", Market: MarketUS, Currency: "USD", RiskLevel: 7, MinInvestment: 50, DividendYield: f(0), Description: "Search and advertising"},
		{Symbol: "AMZN", Name: "Amazon.com Inc.", Category: "Consumer Stock", Market: MarketUS, Currency: "USD", RiskLevel: 8, MinInvestment: 50, DividendYield: f(0), Description: "E-commerce and cloud"},
		{Symbol: "TSLA", Name: "Tesla Inc.", Category: "Automotive Stock", Market: MarketUS, Currency: "USD", RiskLevel: 9, MinInvestment: 50, DividendYield: f(0), Description: "Electric vehicles"},

		// US mutual funds
		{Symbol: "VTSAX", Name: "Vanguard Total Stock Market Index Fund", Category: "Mutual Fund", Market: MarketUS, Currency: "USD", RiskLevel: 7, MinInvestment: 3000, ExpenseRatio: f(0.04), DividendYield: f(1.3), Description: "Total stock market index fund"},
		{Symbol: "VTIAX", Name: "Vanguard Total International Stock Index Fund", Category: "Mutual Fund", Market: MarketUS, Currency: "USD", RiskLevel: 8, MinInvestment: 3000, ExpenseRatio: f(0.11), DividendYield: f(2.2), Description: "International stock index fund"},

		// Alternatives
		{Symbol: "VNQ", Name: "Vanguard Real Estate ETF", Category: "REIT ETF", Market: MarketUS, Currency: "USD", RiskLevel: 6, MinInvestment: 100, ExpenseRatio: f(0.12), DividendYield: f(3.5), Description: "US real estate investment trusts"},
		{Symbol: "GLD", Name: "SPDR Gold Shares", Category: "Commodity ETF", Market: MarketUS, Currency: "USD", RiskLevel: 4, MinInvestment: 100, ExpenseRatio: f(0.40), DividendYield: f(0), IsShariaCompliant: true, Description: "Gold commodity ETF"},
		{Symbol: "SLV", Name: "iShares Silver Trust", Category: "Commodity ETF", Market: MarketUS, Currency: "USD", RiskLevel: 5, MinInvestment: 100, ExpenseRatio: f(0.50), DividendYield: f(0), IsShariaCompliant: true, Description: "Silver commodity ETF"},
	}
}
