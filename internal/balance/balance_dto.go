package balance

type BalanceEntry struct {
	Type      string  `json:"type"`
	Used      float64 `json:"used"`
	Remaining float64 `json:"remain"`
}

type BalancesResponse struct {
	StaffID     string         `json:"staff_id"`
	Name        string         `json:"name"`
	SiteID      string         `json:"site_id"`
	Balances    []BalanceEntry `json:"balances"`
	SwitchCount float64        `json:"switch_count"`
}
