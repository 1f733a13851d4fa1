package player

// ApplyToTeamPlayer overlays detail-endpoint fields onto a squad
// player. Detail values win whenever present; the id never changes.
func (d Detail) ApplyToTeamPlayer(p *TeamPlayer) {
	if d.FirstName != nil {
		p.FirstName = *d.FirstName
	}
	if d.LastName != nil {
		p.LastName = *d.LastName
	}
	if d.TeamName != nil {
		p.TeamName = *d.TeamName
	}
	if d.TeamID != nil {
		p.TeamID = *d.TeamID
	}
	if d.Position != nil {
		p.Position = *d.Position
	}
	if d.Number != nil {
		p.Number = *d.Number
	}
	if d.ShirtNumber != nil {
		p.Number = *d.ShirtNumber
	}
	if d.AveragePoints != nil {
		p.AveragePoints = *d.AveragePoints
	}
	if d.TotalPoints != nil {
		p.TotalPoints = *d.TotalPoints
	}
	if d.MarketValue != nil {
		p.MarketValue = *d.MarketValue
	}
	if d.MarketValueTrend != nil {
		p.MarketValueTrend = *d.MarketValueTrend
	}
	if d.ProfileImageURL != nil {
		p.ProfileImageURL = *d.ProfileImageURL
	}
	if d.TwoDayTrend != nil {
		p.TwoDayTrend = *d.TwoDayTrend
	}
	if d.ProfitLoss != nil {
		p.ProfitLoss = *d.ProfitLoss
	}
	if d.StatusAlt != nil {
		p.StatusAlt = *d.StatusAlt
	}
	if d.Status != nil {
		p.Status = *d.Status
	}
	if d.UserOwnsPlayer != nil {
		p.UserOwnsPlayer = *d.UserOwnsPlayer
	}

	// A detail payload can carry present-but-empty name fields; never
	// let it blank out the identity.
	p.FirstName, p.LastName = DisplayableName(p.FirstName, p.LastName)
}

// ApplyToMarketPlayer overlays detail-endpoint fields onto a market
// listing. Price, expiry, offers and seller stay with the listing.
func (d Detail) ApplyToMarketPlayer(p *MarketPlayer) {
	if d.FirstName != nil {
		p.FirstName = *d.FirstName
	}
	if d.LastName != nil {
		p.LastName = *d.LastName
	}
	if d.TeamName != nil {
		p.TeamName = *d.TeamName
	}
	if d.TeamID != nil {
		p.TeamID = *d.TeamID
	}
	if d.Position != nil {
		p.Position = *d.Position
	}
	if d.Number != nil {
		p.Number = *d.Number
	}
	if d.ShirtNumber != nil {
		p.Number = *d.ShirtNumber
	}
	if d.AveragePoints != nil {
		p.AveragePoints = *d.AveragePoints
	}
	if d.TotalPoints != nil {
		p.TotalPoints = *d.TotalPoints
	}
	if d.MarketValue != nil {
		p.MarketValue = *d.MarketValue
	}
	if d.MarketValueTrend != nil {
		p.MarketValueTrend = *d.MarketValueTrend
	}
	if d.ProfileImageURL != nil {
		p.ProfileImageURL = *d.ProfileImageURL
	}
	if d.ProfitLoss != nil {
		v := *d.ProfitLoss
		p.ProfitLoss = &v
	}
	if d.StatusAlt != nil {
		p.StatusAlt = *d.StatusAlt
	}
	if d.Status != nil {
		p.Status = *d.Status
	}

	p.FirstName, p.LastName = DisplayableName(p.FirstName, p.LastName)
}
