package league

// League is one Kickbase league the authenticated manager belongs to.
// Instances are immutable value objects rebuilt on every fetch.
type League struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatorName string `json:"creatorName"`
	AdminName   string `json:"adminName"`
	Created     string `json:"created"`
	Season      string `json:"season"`
	MatchDay    int    `json:"matchDay"`
	CurrentUser User   `json:"currentUser"`
}

// User is a manager's standing inside one league. Budget may go
// negative. MaxPlayersPerTeam (upstream field "mpst") caps how many
// players from the same real-world club the manager may own.
type User struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	TeamName          string `json:"teamName"`
	Budget            int    `json:"budget"`
	TeamValue         int    `json:"teamValue"`
	Points            int    `json:"points"`
	Placement         int    `json:"placement"`
	Won               int    `json:"won"`
	Drawn             int    `json:"drawn"`
	Lost              int    `json:"lost"`
	StarterEleven     int    `json:"se11"`
	TotalTransfers    int    `json:"ttm"`
	MaxPlayersPerTeam int    `json:"mpst"`
}

// Stats is the refreshable slice of a user's league standing shown on
// the dashboard.
type Stats struct {
	TeamValue      int `json:"teamValue"`
	TeamValueTrend int `json:"teamValueTrend"`
	Budget         int `json:"budget"`
	Points         int `json:"points"`
	Placement      int `json:"placement"`
	Won            int `json:"won"`
	Drawn          int `json:"drawn"`
	Lost           int `json:"lost"`
}
