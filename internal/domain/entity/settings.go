package entity

// Settings holds the process-wide knobs that govern deposit admission and
// scheduler bounds. Owned by the catalog/store service and read-only here.
type Settings struct {
	MinDeposit        int64 // Smallest accepted top-up amount
	MaxDeposit        int64 // Largest accepted top-up amount
	Maintenance       bool  // When set, the deposit entry point is disabled
	AutoCheckEnabled  bool  // Gates the sweep loop
	AutoCheckMaxTries int   // Poll cap before a pending deposit is force-expired
}

// DefaultSettings mirrors the values the store service seeds on first run
func DefaultSettings() Settings {
	return Settings{
		MinDeposit:        1000,
		MaxDeposit:        1000000,
		Maintenance:       false,
		AutoCheckEnabled:  true,
		AutoCheckMaxTries: 360,
	}
}
