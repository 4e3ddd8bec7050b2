package utils

import "strings"

type Currency struct {
	Code   string
	Symbol string
}

var defaultCurrency = Currency{Code: "USD", Symbol: "$"}

var currencyByCode = map[string]Currency{
	"INR": {"INR", "₹"},
	"USD": {"USD", "$"},
	"GBP": {"GBP", "£"},
	"EUR": {"EUR", "€"},
	"JPY": {"JPY", "¥"},
	"CNY": {"CNY", "¥"},
	"AUD": {"AUD", "A$"},
	"CAD": {"CAD", "C$"},
	"SGD": {"SGD", "S$"},
	"AED": {"AED", "د.إ"},
	"THB": {"THB", "฿"},
	"VND": {"VND", "₫"},
	"IDR": {"IDR", "Rp"},
	"MYR": {"MYR", "RM"},
	"CHF": {"CHF", "CHF"},
	"NZD": {"NZD", "NZ$"},
	"KRW": {"KRW", "₩"},
	"ZAR": {"ZAR", "R"},
	"BRL": {"BRL", "R$"},
	"MXN": {"MXN", "MX$"},
	"LKR": {"LKR", "Rs"},
	"NPR": {"NPR", "रू"},
}

// first match wins, so multi-word names come before their substrings
var originKeywords = []struct {
	keyword string
	code    string
}{
	{"india", "INR"}, {"delhi", "INR"}, {"mumbai", "INR"}, {"bengaluru", "INR"}, {"bangalore", "INR"},
	{"chennai", "INR"}, {"kolkata", "INR"}, {"hyderabad", "INR"}, {"pune", "INR"}, {"jaipur", "INR"},
	{"ahmedabad", "INR"}, {"kochi", "INR"}, {"goa", "INR"},
	{"united kingdom", "GBP"}, {"england", "GBP"}, {"scotland", "GBP"}, {"london", "GBP"}, {"manchester", "GBP"}, {"uk", "GBP"},
	{"united arab emirates", "AED"}, {"dubai", "AED"}, {"abu dhabi", "AED"}, {"uae", "AED"},
	{"united states", "USD"}, {"usa", "USD"}, {"new york", "USD"}, {"san francisco", "USD"}, {"los angeles", "USD"}, {"chicago", "USD"},
	{"new zealand", "NZD"}, {"auckland", "NZD"},
	{"australia", "AUD"}, {"sydney", "AUD"}, {"melbourne", "AUD"},
	{"canada", "CAD"}, {"toronto", "CAD"}, {"vancouver", "CAD"},
	{"singapore", "SGD"},
	{"japan", "JPY"}, {"tokyo", "JPY"}, {"osaka", "JPY"},
	{"china", "CNY"}, {"beijing", "CNY"}, {"shanghai", "CNY"},
	{"thailand", "THB"}, {"bangkok", "THB"},
	{"vietnam", "VND"}, {"viet nam", "VND"}, {"hanoi", "VND"}, {"ho chi minh", "VND"}, {"saigon", "VND"},
	{"indonesia", "IDR"}, {"jakarta", "IDR"}, {"bali", "IDR"},
	{"malaysia", "MYR"}, {"kuala lumpur", "MYR"},
	{"switzerland", "CHF"}, {"zurich", "CHF"}, {"geneva", "CHF"},
	{"south korea", "KRW"}, {"korea", "KRW"}, {"seoul", "KRW"},
	{"south africa", "ZAR"}, {"cape town", "ZAR"}, {"johannesburg", "ZAR"},
	{"brazil", "BRL"}, {"mexico", "MXN"},
	{"sri lanka", "LKR"}, {"colombo", "LKR"},
	{"nepal", "NPR"}, {"kathmandu", "NPR"},
	{"germany", "EUR"}, {"berlin", "EUR"}, {"munich", "EUR"}, {"france", "EUR"}, {"paris", "EUR"},
	{"italy", "EUR"}, {"rome", "EUR"}, {"milan", "EUR"}, {"spain", "EUR"}, {"madrid", "EUR"}, {"barcelona", "EUR"},
	{"netherlands", "EUR"}, {"amsterdam", "EUR"}, {"ireland", "EUR"}, {"dublin", "EUR"}, {"portugal", "EUR"},
	{"lisbon", "EUR"}, {"austria", "EUR"}, {"vienna", "EUR"}, {"belgium", "EUR"}, {"brussels", "EUR"},
	{"greece", "EUR"}, {"athens", "EUR"}, {"finland", "EUR"}, {"helsinki", "EUR"},
}

// CurrencyForCode returns the currency for an ISO code, falling back to USD.
func CurrencyForCode(code string) Currency {
	if c, ok := currencyByCode[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return c
	}
	return defaultCurrency
}

// CurrencyForOrigin guesses the home currency of a traveller from their
// origin (city and/or country). Unknown origins fall back to USD.
func CurrencyForOrigin(origin string) Currency {
	lower := " " + strings.ToLower(origin) + " "
	lower = strings.NewReplacer(",", " ", ".", " ", "-", " ", "(", " ", ")", " ").Replace(lower)
	for _, k := range originKeywords {
		if strings.Contains(lower, " "+k.keyword+" ") {
			return currencyByCode[k.code]
		}
	}
	return defaultCurrency
}

// IsKnownCurrency reports whether code is in the currency table.
func IsKnownCurrency(code string) bool {
	_, ok := currencyByCode[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}
