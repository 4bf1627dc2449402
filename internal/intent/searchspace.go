package intent

// Domain is an evidence partition in the vector index.
type Domain string

const (
	DomainDomesticAnalyst Domain = "domestic-analyst"
	DomainForeignAnalyst  Domain = "foreign-analyst"
)

// Domestic analyst report category codes.
const (
	catDomesticStock    = "R100"
	catDomesticIndustry = "R200"
	catDomesticMarket   = "R300"
	catDomesticBond     = "R500"
	catDomesticFX       = "R600"
	catDomesticEcon     = "R700"
	catDomesticChina    = "H100"
)

// Foreign analyst report category tags.
const (
	catForeignEconomy       = "Economy Analysis"
	catForeignForex         = "Forex Analysis"
	catForeignInvesting     = "Investing Strategy"
	catForeignLongIdeas     = "Long Ideas"
	catForeignMarketOutlook = "Market Outlook"
	catForeignPortfolio     = "Portfolio Strategy"
	catForeignStockIdeas    = "Stock Ideas"
	catForeignDividendIdeas = "Dividend Ideas"
	catForeignDividendStrat = "Dividend Strategy"
	catForeignDividends     = "Dividends Analysis"
	catForeignETFAnalysis   = "ETF Analysis"
	catForeignETFsFunds     = "ETFs and Funds Analysis"
	catForeignGrowth        = "Growth"
	catForeignMicroCap      = "Micro-Caps"
	catForeignSmallCap      = "Small-Caps"
	catForeignValue         = "Value"
	catForeignBonds         = "Bonds Analysis"
	catForeignFixedIncome   = "Fixed Income"
	catForeignEnergy        = "Energy"
	catForeignMaterials     = "Basic Materials"
	catForeignConsumer      = "Consumer"
	catForeignHealthcare    = "Healthcare"
	catForeignIndustrial    = "Industrial"
	catForeignFinancials    = "Financials"
	catForeignTech          = "Tech"
	catForeignComms         = "Communication Services"
	catForeignUtilities     = "Utilities"
	catForeignRealEstate    = "Real Estate Analysis"
	catForeignCommodities   = "Commodities"
	catForeignCrypto        = "Cryptocurrency"
	catForeignGold          = "Gold & Precious Metals"
)

// SearchSpace returns the category filter for a domain given an intent.
// An empty slice means the domain is queried without a category filter.
func SearchSpace(it Intent, domain Domain) []string {
	if it.Primary.HasSecondary() && it.Secondary != nil {
		return secondarySearchSpace(*it.Secondary, domain)
	}
	return primarySearchSpace(it.Primary, domain)
}

func primarySearchSpace(p Primary, domain Domain) []string {
	spaces := map[Primary]map[Domain][]string{
		Policy: {
			DomainDomesticAnalyst: {catDomesticEcon},
			DomainForeignAnalyst:  {},
		},
		Economics: {
			DomainDomesticAnalyst: {catDomesticEcon, catDomesticFX},
			DomainForeignAnalyst:  {catForeignEconomy, catForeignForex},
		},
		Bonds: {
			DomainDomesticAnalyst: {catDomesticBond},
			DomainForeignAnalyst:  {catForeignBonds, catForeignFixedIncome},
		},
		Alternative: {
			DomainDomesticAnalyst: {},
			DomainForeignAnalyst:  {catForeignCommodities, catForeignCrypto, catForeignGold, catForeignRealEstate},
		},
		China: {
			DomainDomesticAnalyst: {catDomesticChina},
			DomainForeignAnalyst:  {},
		},
		Other: {
			DomainDomesticAnalyst: {},
			DomainForeignAnalyst:  {},
		},
	}
	if byDomain, ok := spaces[p]; ok {
		return byDomain[domain]
	}
	return nil
}

func secondarySearchSpace(s Secondary, domain Domain) []string {
	spaces := map[Secondary]map[Domain][]string{
		InvestmentStrategy: {
			DomainDomesticAnalyst: {catDomesticMarket},
			DomainForeignAnalyst: {
				catForeignInvesting, catForeignLongIdeas, catForeignMarketOutlook,
				catForeignPortfolio, catForeignStockIdeas,
			},
		},
		DividendStock: {
			DomainDomesticAnalyst: {},
			DomainForeignAnalyst:  {catForeignDividendIdeas, catForeignDividendStrat, catForeignDividends},
		},
		ETF: {
			DomainDomesticAnalyst: {},
			DomainForeignAnalyst:  {catForeignETFAnalysis, catForeignETFsFunds},
		},
		StyleFactor: {
			DomainDomesticAnalyst: {catDomesticMarket},
			DomainForeignAnalyst:  {catForeignGrowth, catForeignMicroCap, catForeignSmallCap, catForeignValue},
		},
		IndustryOverall: {
			DomainDomesticAnalyst: {catDomesticIndustry},
			DomainForeignAnalyst:  {},
		},
		Energy: {
			DomainDomesticAnalyst: {catDomesticIndustry},
			DomainForeignAnalyst:  {catForeignEnergy},
		},
		Materials: {
			DomainDomesticAnalyst: {catDomesticIndustry},
			DomainForeignAnalyst:  {catForeignMaterials},
		},
		Consumer: {
			DomainDomesticAnalyst: {catDomesticIndustry},
			DomainForeignAnalyst:  {catForeignConsumer},
		},
		Healthcare: {
			DomainDomesticAnalyst: {catDomesticIndustry},
			DomainForeignAnalyst:  {catForeignHealthcare},
		},
		Industrial: {
			DomainDomesticAnalyst: {catDomesticIndustry},
			DomainForeignAnalyst:  {catForeignIndustrial},
		},
		Financial: {
			DomainDomesticAnalyst: {catDomesticIndustry},
			DomainForeignAnalyst:  {catForeignFinancials},
		},
		IT: {
			DomainDomesticAnalyst: {catDomesticIndustry, catDomesticStock},
			DomainForeignAnalyst:  {catForeignTech},
		},
		Communication: {
			DomainDomesticAnalyst: {catDomesticIndustry},
			DomainForeignAnalyst:  {catForeignComms},
		},
		Utilities: {
			DomainDomesticAnalyst: {catDomesticIndustry},
			DomainForeignAnalyst:  {catForeignUtilities},
		},
		RealEstate: {
			DomainDomesticAnalyst: {catDomesticIndustry},
			DomainForeignAnalyst:  {catForeignRealEstate},
		},
	}
	if byDomain, ok := spaces[s]; ok {
		return byDomain[domain]
	}
	return nil
}
