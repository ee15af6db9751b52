package service

// ProgressSnapshot is the opaque key/value progress blob the client reads
// and writes: wallet, cosmetics, bestiary, inventory and highest floor.
type ProgressSnapshot struct {
	PlayerName   string         `json:"player_name"`
	Currency     int            `json:"currency"`
	Cosmetics    []string       `json:"cosmetics"`
	Inventory    map[string]int `json:"inventory"`
	HighestFloor int            `json:"highest_floor"`
	RunsPlayed   int            `json:"runs_played"`
	Wins         int            `json:"wins"`
	Bestiary     map[string]int `json:"bestiary"`
}

// LoadProgress assembles the progress snapshot for email.
func (s *Service) LoadProgress(email string) (*ProgressSnapshot, error) {
	profile, err := s.repo.UpsertProfile(email, "")
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.GetBestiary(email)
	if err != nil {
		return nil, err
	}
	bestiary := make(map[string]int, len(entries))
	for _, e := range entries {
		bestiary[e.EnemyName] = e.Encounters
	}
	cosmetics := profile.Cosmetics
	if cosmetics == nil {
		cosmetics = []string{}
	}
	inventory := profile.Inventory
	if inventory == nil {
		inventory = map[string]int{}
	}
	return &ProgressSnapshot{
		PlayerName:   profile.PlayerName,
		Currency:     profile.Currency,
		Cosmetics:    cosmetics,
		Inventory:    inventory,
		HighestFloor: profile.HighestFloor,
		RunsPlayed:   profile.RunsPlayed,
		Wins:         profile.Wins,
		Bestiary:     bestiary,
	}, nil
}

// SaveProgress writes the client-owned parts of the snapshot: display name,
// wallet, cosmetics and inventory. Run-derived stats (highest floor, wins,
// runs played, bestiary) stay server-authoritative and are ignored here.
func (s *Service) SaveProgress(email string, snap *ProgressSnapshot) error {
	profile, err := s.repo.UpsertProfile(email, snap.PlayerName)
	if err != nil {
		return err
	}
	if snap.PlayerName != "" {
		profile.PlayerName = snap.PlayerName
	}
	if snap.Currency >= 0 {
		profile.Currency = snap.Currency
	}
	if snap.Cosmetics != nil {
		profile.Cosmetics = snap.Cosmetics
	}
	if snap.Inventory != nil {
		profile.Inventory = snap.Inventory
	}
	return s.repo.SaveProfile(profile)
}
