package models

// PayoutRow is one line of a pay period, derived from a timesheet document
type PayoutRow struct {
	ID       string  `json:"id"`
	Company  string  `json:"company"`
	Campaign string  `json:"campaign,omitempty"`
	Location string  `json:"location,omitempty"`
	DateStr  string  `json:"date"` // YYYY-MM-DD
	Hours    float64 `json:"hours"`
	Amount   float64 `json:"amount"`
}

// PayPeriod identifies a Thursday-to-Wednesday pay window
type PayPeriod struct {
	WeeksBack    int    `json:"weeks_back"`
	WeekThursISO string `json:"week_thurs_iso"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Label        string `json:"label"`
}

// PayoutsResponse is the response for a pay period
type PayoutsResponse struct {
	Period       PayPeriod   `json:"period"`
	Rows         []PayoutRow `json:"rows"`
	Total        float64     `json:"total"`
	TotalDisplay string      `json:"total_display"`
	Currency     string      `json:"currency"`
	CanGoNext    bool        `json:"can_go_next"`
}
