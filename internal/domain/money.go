package domain

import "github.com/shopspring/decimal"

func init() {
	// Amounts go over the wire as JSON numbers ("totalAmount": 25). Decoding
	// still accepts both numbers and quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}
