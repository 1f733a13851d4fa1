package parse

import (
	"github.com/lukasmw/kickbase-companion/internal/domain/league"
	"github.com/lukasmw/kickbase-companion/internal/domain/player"
	"github.com/lukasmw/kickbase-companion/internal/platform/id"
)

// Mapper converts classified raw records into domain entities. The id
// generator backs synthetic ids for records that arrive without one,
// so downstream caches always have a key.
type Mapper struct {
	ids id.Generator
}

func NewMapper(ids id.Generator) *Mapper {
	return &Mapper{ids: ids}
}

// League maps one raw league record. The current-user block nests
// under "cu" on newer payloads and sits inline on older ones.
func (mp *Mapper) League(m map[string]any) league.League {
	l := league.League{
		ID:          StringOr(m, "", idKeys...),
		Name:        StringOr(m, "", nameKeys...),
		CreatorName: StringOr(m, "", "creator", "creatorName", "cn"),
		AdminName:   StringOr(m, "", "adm", "admin", "adminName"),
		Created:     StringOr(m, "", "created", "creation", "dt"),
		Season:      StringOr(m, "", "season", "sn"),
		MatchDay:    IntOr(m, 0, "matchDay", "day", "md"),
	}
	if cu, ok := m["cu"].(map[string]any); ok {
		l.CurrentUser = mp.LeagueUser(cu, league.User{})
	} else {
		l.CurrentUser = mp.LeagueUser(m, league.User{})
	}
	return l
}

// LeagueUser maps one manager record. Missing fields fall back to the
// caller-supplied user so a ranking refresh never zeroes out a budget
// that simply was not resent.
func (mp *Mapper) LeagueUser(m map[string]any, fallback league.User) league.User {
	return league.User{
		ID:                StringOr(m, fallback.ID, idKeys...),
		Name:              StringOr(m, fallback.Name, nameKeys...),
		TeamName:          StringOr(m, fallback.TeamName, teamNameKeys...),
		Budget:            IntOr(m, fallback.Budget, budgetKeys...),
		TeamValue:         IntOr(m, fallback.TeamValue, teamValueKeys...),
		Points:            IntOr(m, fallback.Points, totalPointsKeys...),
		Placement:         IntOr(m, fallback.Placement, placementKeys...),
		Won:               IntOr(m, fallback.Won, wonKeys...),
		Drawn:             IntOr(m, fallback.Drawn, drawnKeys...),
		Lost:              IntOr(m, fallback.Lost, lostKeys...),
		StarterEleven:     IntOr(m, fallback.StarterEleven, "se11"),
		TotalTransfers:    IntOr(m, fallback.TotalTransfers, "ttm"),
		MaxPlayersPerTeam: IntOr(m, fallback.MaxPlayersPerTeam, "mpst"),
	}
}

// UserStats maps the dashboard stats record, falling back to the known
// user standing for anything the payload omits.
func (mp *Mapper) UserStats(m map[string]any, fallback league.User) league.Stats {
	return league.Stats{
		TeamValue:      IntOr(m, fallback.TeamValue, teamValueKeys...),
		TeamValueTrend: IntOr(m, 0, teamValueTrendKeys...),
		Budget:         IntOr(m, fallback.Budget, budgetKeys...),
		Points:         IntOr(m, fallback.Points, totalPointsKeys...),
		Placement:      IntOr(m, fallback.Placement, placementKeys...),
		Won:            IntOr(m, fallback.Won, wonKeys...),
		Drawn:          IntOr(m, fallback.Drawn, drawnKeys...),
		Lost:           IntOr(m, fallback.Lost, lostKeys...),
	}
}

// TeamPlayer maps one squad record.
func (mp *Mapper) TeamPlayer(m map[string]any) player.TeamPlayer {
	p := player.TeamPlayer{
		ID:               mp.playerID(m),
		FirstName:        StringOr(m, "", firstNameKeys...),
		LastName:         StringOr(m, "", lastNameKeys...),
		ProfileImageURL:  StringOr(m, "", imageKeys...),
		TeamName:         StringOr(m, "", teamNameKeys...),
		TeamID:           StringOr(m, "", teamIDKeys...),
		Position:         normalizePosition(IntOr(m, 0, positionKeys...)),
		Number:           IntOr(m, 0, numberKeys...),
		AveragePoints:    Float64Or(m, 0, averagePointsKeys...),
		TotalPoints:      IntOr(m, 0, totalPointsKeys...),
		MarketValue:      IntOr(m, 0, marketValueKeys...),
		MarketValueTrend: IntOr(m, 0, valueTrendKeys...),
		TwoDayTrend:      IntOr(m, 0, "tfhmvt"),
		ProfitLoss:       IntOr(m, 0, "prlo"),
		StatusAlt:        IntOr(m, 0, statusAltKeys...),
		Status:           IntOr(m, 0, statusKeys...),
		UserOwnsPlayer:   true,
	}
	p.FirstName, p.LastName = player.DisplayableName(p.FirstName, p.LastName)
	return p
}

// MarketPlayer maps one transfer-market listing. The price defaults to
// the market value when the listing omits it.
func (mp *Mapper) MarketPlayer(m map[string]any) player.MarketPlayer {
	marketValue := IntOr(m, 0, marketValueKeys...)

	p := player.MarketPlayer{
		ID:               mp.playerID(m),
		FirstName:        StringOr(m, "", firstNameKeys...),
		LastName:         StringOr(m, "", lastNameKeys...),
		ProfileImageURL:  StringOr(m, "", imageKeys...),
		TeamName:         StringOr(m, "", teamNameKeys...),
		TeamID:           StringOr(m, "", teamIDKeys...),
		Position:         normalizePosition(IntOr(m, 0, positionKeys...)),
		Number:           IntOr(m, 0, numberKeys...),
		AveragePoints:    Float64Or(m, 0, averagePointsKeys...),
		TotalPoints:      IntOr(m, 0, totalPointsKeys...),
		MarketValue:      marketValue,
		MarketValueTrend: IntOr(m, 0, valueTrendKeys...),
		Price:            IntOr(m, marketValue, priceKeys...),
		Expiry:           StringOr(m, "", expiryKeys...),
		ExpirySeconds:    IntOr(m, 0, "exs"),
		Offers:           IntOr(m, 0, offerKeys...),
		StatusAlt:        IntOr(m, 0, statusAltKeys...),
		Status:           IntOr(m, 0, statusKeys...),
	}
	p.FirstName, p.LastName = player.DisplayableName(p.FirstName, p.LastName)

	if n, ok := Int(m, "prlo"); ok {
		p.ProfitLoss = &n
	}

	if u, ok := m["u"].(map[string]any); ok {
		p.Seller = player.Seller{
			ID:   StringOr(u, "", idKeys...),
			Name: StringOr(u, "", nameKeys...),
		}
		p.Owner = mapOwner(u)
	}
	return p
}

// mapOwner attaches an owner only when the nested block carries both
// an id and a name; a partial block means no owner, not an error.
func mapOwner(u map[string]any) *player.Owner {
	ownerID, okID := String(u, "i")
	ownerName, okName := String(u, "n")
	if !okID || !okName || ownerID == "" || ownerName == "" {
		return nil
	}
	o := &player.Owner{
		ID:       ownerID,
		Name:     ownerName,
		ImageURL: StringOr(u, "", "uim", "profileUrl"),
	}
	if b, ok := Bool(u, "isvf", "verified"); ok {
		o.IsVerified = &b
	}
	if n, ok := Int(u, statusKeys...); ok {
		o.Status = &n
	}
	return o
}

// Detail maps the per-player detail record. Every field is a pointer;
// absent means "keep the list-endpoint value".
func (mp *Mapper) Detail(m map[string]any) player.Detail {
	var d player.Detail
	d.ID = stringPtr(m, idKeys...)
	d.FirstName = stringPtr(m, firstNameKeys...)
	d.LastName = stringPtr(m, lastNameKeys...)
	d.TeamName = stringPtr(m, teamNameKeys...)
	d.TeamID = stringPtr(m, teamIDKeys...)
	d.Position = intPtr(m, positionKeys...)
	d.Number = intPtr(m, numberKeys...)
	d.ShirtNumber = intPtr(m, "shirtNumber", "nr")
	d.AveragePoints = floatPtr(m, averagePointsKeys...)
	d.TotalPoints = intPtr(m, totalPointsKeys...)
	d.MarketValue = intPtr(m, marketValueKeys...)
	d.MarketValueTrend = intPtr(m, valueTrendKeys...)
	d.ProfileImageURL = stringPtr(m, imageKeys...)
	d.TwoDayTrend = intPtr(m, "tfhmvt")
	d.ProfitLoss = intPtr(m, "prlo")
	d.StatusAlt = intPtr(m, statusAltKeys...)
	d.Status = intPtr(m, statusKeys...)
	if b, ok := Bool(m, "userOwnsPlayer", "uop"); ok {
		d.UserOwnsPlayer = &b
	}
	return d
}

// MatchStats maps the matchday counters from the detail endpoint.
func (mp *Mapper) MatchStats(m map[string]any) player.MatchStats {
	return player.MatchStats{
		CurrentMatchDay: IntOr(m, 0, "smdc", "currentMatchDay"),
		GamesPlayed:     IntOr(m, 0, "ismc", "gamesPlayed"),
		GamesStarted:    IntOr(m, 0, "smc", "gamesStarted"),
	}
}

// Performance maps one matchday row from the performance endpoint.
func (mp *Mapper) Performance(m map[string]any) player.MatchPerformance {
	perf := player.MatchPerformance{
		Day:            IntOr(m, 0, "day", "md"),
		Points:         IntOr(m, 0, totalPointsKeys...),
		MinutesOnPitch: IntOr(m, 0, "mp", "min"),
		HomeTeamID:     StringOr(m, "", "t1"),
		AwayTeamID:     StringOr(m, "", "t2"),
		PlayerTeamID:   StringOr(m, "", "pt"),
	}
	if b, ok := Bool(m, "cur"); ok {
		perf.Current = b
	}
	return perf
}

// MarketValueEntry maps one (day, value) sample from the market value
// history endpoint.
func (mp *Mapper) MarketValueEntry(m map[string]any) player.MarketValueEntry {
	return player.MarketValueEntry{
		Day:   IntOr(m, 0, "dt", "day"),
		Value: IntOr(m, 0, marketValueKeys...),
	}
}

// TeamInfo maps one real-world club profile record.
func (mp *Mapper) TeamInfo(m map[string]any) player.TeamInfo {
	return player.TeamInfo{
		ID:        StringOr(m, "", "tid", "id", "i"),
		Name:      StringOr(m, "", "tn", "name", "n"),
		ShortName: StringOr(m, "", "sn", "shortName"),
		Placement: IntOr(m, 0, placementKeys...),
		LogoURL:   StringOr(m, "", "tim", "logo"),
	}
}

func (mp *Mapper) playerID(m map[string]any) string {
	if s, ok := String(m, idKeys...); ok && s != "" {
		return s
	}
	return mp.ids.Short()
}

// normalizePosition clamps unknown position codes to midfielder so the
// position invariant holds everywhere downstream.
func normalizePosition(pos int) int {
	if pos < player.PositionGoalkeeper || pos > player.PositionForward {
		return player.PositionMidfielder
	}
	return pos
}

func stringPtr(m map[string]any, keys ...string) *string {
	if s, ok := String(m, keys...); ok {
		return &s
	}
	return nil
}

func intPtr(m map[string]any, keys ...string) *int {
	if n, ok := Int(m, keys...); ok {
		return &n
	}
	return nil
}

func floatPtr(m map[string]any, keys ...string) *float64 {
	if f, ok := Float64(m, keys...); ok {
		return &f
	}
	return nil
}
