// Package intent defines the question intent taxonomy and the per-domain
// search spaces derived from it. The classifier narrows report retrieval to
// the category tags an intent maps to.
package intent

// Primary is the top-level question category.
type Primary string

const (
	Policy        Primary = "Policy"
	Economics     Primary = "Economics"
	StockStrategy Primary = "Stock market strategy"
	Bonds         Primary = "Bond market"
	Industry      Primary = "Industries and sectors"
	Alternative   Primary = "Alternative assets"
	China         Primary = "China"
	Other         Primary = "Others"
)

// Primaries lists every primary intent in classification order.
func Primaries() []Primary {
	return []Primary{Policy, Economics, StockStrategy, Bonds, Industry, Alternative, China, Other}
}

// Label returns the Korean display string for the primary intent.
// The label lives on the enum itself so the English value and the localized
// label cannot drift apart in separate tables.
func (p Primary) Label() string {
	switch p {
	case Policy:
		return "정책"
	case Economics:
		return "경제"
	case StockStrategy:
		return "주식시장 전략"
	case Bonds:
		return "채권시장"
	case Industry:
		return "산업 및 종목"
	case Alternative:
		return "대체자산"
	case China:
		return "중국"
	case Other:
		return "기타"
	}
	return string(p)
}

// HasSecondary reports whether the primary intent defines a secondary taxonomy.
// Only stock market strategy and industry questions do.
func (p Primary) HasSecondary() bool {
	return p == StockStrategy || p == Industry
}

// ParsePrimary matches a classifier label (English value or Korean label)
// against the taxonomy. Returns false when no primary matches.
func ParsePrimary(label string) (Primary, bool) {
	for _, p := range Primaries() {
		if string(p) == label || p.Label() == label {
			return p, true
		}
	}
	return "", false
}

// Secondary is the second-level category, only meaningful under StockStrategy
// or Industry.
type Secondary string

const (
	// StockStrategy secondaries.
	InvestmentStrategy Secondary = "Investment strategy"
	DividendStock      Secondary = "Dividend stock"
	ETF                Secondary = "ETF"
	StyleFactor        Secondary = "Style factor analysis"

	// Industry secondaries.
	IndustryOverall Secondary = "Overall"
	Energy          Secondary = "Energy"
	Materials       Secondary = "Materials"
	Consumer        Secondary = "Consumer"
	Healthcare      Secondary = "Healthcare"
	Industrial      Secondary = "Industrial"
	Financial       Secondary = "Financial"
	IT              Secondary = "IT"
	Communication   Secondary = "Communication"
	Utilities       Secondary = "Utilities"
	RealEstate      Secondary = "Real Estate"
)

// Label returns the Korean display string for the secondary intent.
func (s Secondary) Label() string {
	switch s {
	case InvestmentStrategy:
		return "투자 전략"
	case DividendStock:
		return "배당주"
	case ETF:
		return "ETF"
	case StyleFactor:
		return "스타일 팩터 분석"
	case IndustryOverall:
		return "전체"
	case Energy:
		return "에너지"
	case Materials:
		return "소재"
	case Consumer:
		return "소비재"
	case Healthcare:
		return "헬스케어"
	case Industrial:
		return "산업재"
	case Financial:
		return "금융"
	case IT:
		return "IT"
	case Communication:
		return "통신"
	case Utilities:
		return "유틸리티"
	case RealEstate:
		return "부동산"
	}
	return string(s)
}

// SecondariesFor returns the allowed secondary values for a primary intent,
// or nil when the primary has no secondary taxonomy. The classifier prompt is
// parameterized with this list so the model cannot return an invalid value.
func SecondariesFor(p Primary) []Secondary {
	switch p {
	case StockStrategy:
		return []Secondary{InvestmentStrategy, DividendStock, ETF, StyleFactor}
	case Industry:
		return []Secondary{
			IndustryOverall, Energy, Materials, Consumer, Healthcare, Industrial,
			Financial, IT, Communication, Utilities, RealEstate,
		}
	}
	return nil
}

// ParseSecondary matches a classifier label against the secondaries allowed
// for the given primary.
func ParseSecondary(p Primary, label string) (Secondary, bool) {
	for _, s := range SecondariesFor(p) {
		if string(s) == label || s.Label() == label {
			return s, true
		}
	}
	return "", false
}

// Intent pairs a primary category with an optional secondary.
// Secondary is non-nil only when Primary.HasSecondary() holds.
type Intent struct {
	Primary   Primary    `json:"primary"`
	Secondary *Secondary `json:"secondary,omitempty"`
}

// Default is the safe fallback used when classification fails after retries.
func Default() Intent {
	return Intent{Primary: Economics}
}
