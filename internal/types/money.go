// README: Common money value object used across modules.
package types

// DefaultCurrency is the currency every quote and order is priced in.
const DefaultCurrency = "NGN"

// Money is an amount in minor units (kobo for NGN).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func NGN(amount int64) Money {
	return Money{Amount: amount, Currency: DefaultCurrency}
}

func (m Money) Add(o Money) Money {
	cur := m.Currency
	if cur == "" {
		cur = o.Currency
	}
	return Money{Amount: m.Amount + o.Amount, Currency: cur}
}
