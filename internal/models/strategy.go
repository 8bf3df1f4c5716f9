package models

// WinCoefficients are league-specific regression coefficients mapping a
// match rating to an outcome probability (expressed in percentage points).
type WinCoefficients struct {
	BetaSquared float64 `json:"beta_squared_coeff"`
	Beta        float64 `json:"beta_coeff"`
	Constant    float64 `json:"constant"`
}

// LeagueConfig is one league's calibration and running bankroll. The
// bankroll field is the authoritative running balance for the league and
// is written exclusively by the BankrollLedger.
type LeagueConfig struct {
	Name     string          `json:"name"`
	Bankroll float64         `json:"bankroll"`
	Home     WinCoefficients `json:"home"`
	Away     WinCoefficients `json:"away"`
}

// StrategyConfig is the per-strategy document keyed by league code,
// read at run start and written back at run end.
type StrategyConfig map[string]*LeagueConfig

// LeagueSnapshot is an immutable view of a league's configuration handed
// to components other than the ledger.
type LeagueSnapshot struct {
	Code     string
	Name     string
	Bankroll float64
	Home     WinCoefficients
	Away     WinCoefficients
}
