package domain

// FeatureFlags toggles optional surfaces without a redeploy.
type FeatureFlags struct {
	VideoGenerator bool `json:"videoGenerator"`
	NewToolkit     bool `json:"newToolkit"`
}

// AboutInfo is the public contact card shown on the about page.
type AboutInfo struct {
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
	Telegram string `json:"telegram"`
}

// GlobalSettings is the process-wide singleton. Password is the shared access
// secret gating every login; it is not a per-user credential. Only admins may
// mutate the singleton.
type GlobalSettings struct {
	LogoURL         string       `json:"logoUrl"`
	NavOrder        []string     `json:"navOrder"`
	Password        string       `json:"password"`
	MaintenanceMode bool         `json:"maintenanceMode"`
	Announcement    string       `json:"announcement"`
	FeatureFlags    FeatureFlags `json:"featureFlags"`
	AboutInfo       AboutInfo    `json:"aboutInfo"`
}
