package models

// Requests for the signals HTTP endpoints. Defined in domain for consistency
// and reuse across handlers.

type SignalRequest struct {
	Pair string `query:"pair" json:"pair" validate:"required,len=6,alpha"`
	TF   string `query:"tf" json:"tf" default:"5m" validate:"oneof=5m 15m 60m"`
}

type ScanRequest struct {
	TF string `query:"tf" json:"tf" default:"5m" validate:"oneof=5m 15m 60m"`
}

type CandlesRequest struct {
	Pair  string `query:"pair" json:"pair" validate:"required,len=6,alpha"`
	TF    string `query:"tf" json:"tf" default:"5m" validate:"oneof=5m 15m 60m"`
	Limit int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=500"`
}

type QuoteRequest struct {
	Pair string `query:"pair" json:"pair" validate:"required,len=6,alpha"`
}

type RecentSignalsRequest struct {
	Limit int `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=200"`
}

// TradeResultRequest settles a previously emitted signal against the session
// tracker. Result is reported by the dashboard backend timers.
type TradeResultRequest struct {
	Pair      string  `json:"pair" validate:"required,len=6,alpha"`
	Won       bool    `json:"won"`
	AmountBps float64 `json:"amountBps" validate:"gte=0,lte=10000"`
}
