package player

// Position codes as used by the upstream API.
const (
	PositionGoalkeeper = 1
	PositionDefender   = 2
	PositionMidfielder = 3
	PositionForward    = 4
)

// Status codes as used by the upstream API.
const (
	StatusFit         = 0
	StatusInjured     = 1
	StatusDoubtful    = 2
	StatusRehab       = 4
	StatusUnavailable = 8
	StatusNotOnMarket = 16
)

// Placeholder identity for records whose payload carries no name.
const (
	PlaceholderFirstName = "Unbekannter"
	PlaceholderLastName  = "Spieler"
)

// DisplayableName substitutes the placeholder identity when both name
// fields are empty.
func DisplayableName(first, last string) (string, string) {
	if first == "" && last == "" {
		return PlaceholderFirstName, PlaceholderLastName
	}
	return first, last
}

// SeasonLength is the number of matchdays in a Bundesliga season.
const SeasonLength = 34

// TeamPlayer is one player in the manager's own squad. Value object,
// rebuilt on every fetch; ID is the stable cache key.
type TeamPlayer struct {
	ID               string  `json:"id"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	ProfileImageURL  string  `json:"profileImageUrl"`
	TeamName         string  `json:"teamName"`
	TeamID           string  `json:"teamId"`
	Position         int     `json:"position"`
	Number           int     `json:"number"`
	AveragePoints    float64 `json:"averagePoints"`
	TotalPoints      int     `json:"totalPoints"`
	MarketValue      int     `json:"marketValue"`
	MarketValueTrend int     `json:"marketValueTrend"`
	TwoDayTrend      int     `json:"tfhmvt"`
	ProfitLoss       int     `json:"prlo"`
	StatusAlt        int     `json:"stl"`
	Status           int     `json:"status"`
	UserOwnsPlayer   bool    `json:"userOwnsPlayer"`
}

func (p TeamPlayer) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// MarketPlayer is one player currently listed on the transfer market.
type MarketPlayer struct {
	ID               string  `json:"id"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	ProfileImageURL  string  `json:"profileImageUrl"`
	TeamName         string  `json:"teamName"`
	TeamID           string  `json:"teamId"`
	Position         int     `json:"position"`
	Number           int     `json:"number"`
	AveragePoints    float64 `json:"averagePoints"`
	TotalPoints      int     `json:"totalPoints"`
	MarketValue      int     `json:"marketValue"`
	MarketValueTrend int     `json:"marketValueTrend"`
	Price            int     `json:"price"`
	Expiry           string  `json:"expiry"`
	ExpirySeconds    int     `json:"exs"`
	Offers           int     `json:"offers"`
	Seller           Seller  `json:"seller"`
	StatusAlt        int     `json:"stl"`
	Status           int     `json:"status"`
	ProfitLoss       *int    `json:"prlo,omitempty"`
	Owner            *Owner  `json:"owner,omitempty"`
}

func (p MarketPlayer) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Seller identifies the manager who listed a market player.
type Seller struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Owner is the manager currently holding a listed player, attached only
// when the upstream payload carries both id and name.
type Owner struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ImageURL   string `json:"imageUrl,omitempty"`
	IsVerified *bool  `json:"isVerified,omitempty"`
	Status     *int   `json:"status,omitempty"`
}

// Detail is the per-player enrichment record from the detail endpoint.
// Pointer fields distinguish "absent" from zero; detail values always
// win over list values when present.
type Detail struct {
	ID               *string
	FirstName        *string
	LastName         *string
	TeamName         *string
	TeamID           *string
	ShirtNumber      *int
	Position         *int
	Number           *int
	AveragePoints    *float64
	TotalPoints      *int
	MarketValue      *int
	MarketValueTrend *int
	ProfileImageURL  *string
	TwoDayTrend      *int
	ProfitLoss       *int
	StatusAlt        *int
	Status           *int
	UserOwnsPlayer   *bool
}

// MatchStats carries the matchday counters from the detail endpoint:
// smdc = current matchday, ismc = games on the pitch, smc = games
// started.
type MatchStats struct {
	CurrentMatchDay int `json:"smdc"`
	GamesPlayed     int `json:"ismc"`
	GamesStarted    int `json:"smc"`
}

// TeamInfo is a real-world club profile used to annotate performance
// rows.
type TeamInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Placement int    `json:"placement"`
	LogoURL   string `json:"logoUrl"`
}

// MatchPerformance is one matchday row from the performance endpoint.
type MatchPerformance struct {
	Day            int    `json:"day"`
	Points         int    `json:"points"`
	MinutesOnPitch int    `json:"mp"`
	HomeTeamID     string `json:"t1"`
	AwayTeamID     string `json:"t2"`
	PlayerTeamID   string `json:"pt"`
	Current        bool   `json:"cur"`
}

// HasPlayed reports whether the row represents a match the player
// actually appeared in.
func (m MatchPerformance) HasPlayed() bool {
	return m.MinutesOnPitch > 0 || m.Points != 0
}

// OpponentTeamID resolves the opposing club for the player's team.
func (m MatchPerformance) OpponentTeamID() string {
	if m.PlayerTeamID == m.HomeTeamID {
		return m.AwayTeamID
	}
	return m.HomeTeamID
}

// EnhancedMatchPerformance joins a performance row with club profiles.
type EnhancedMatchPerformance struct {
	Base         MatchPerformance `json:"base"`
	HomeTeam     *TeamInfo        `json:"homeTeam,omitempty"`
	AwayTeam     *TeamInfo        `json:"awayTeam,omitempty"`
	PlayerTeam   *TeamInfo        `json:"playerTeam,omitempty"`
	OpponentTeam *TeamInfo        `json:"opponentTeam,omitempty"`
}
