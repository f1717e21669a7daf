package waiver

// Status classifies a waiver relative to a reference time.
type Status string

const (
	StatusActive       Status = "active"
	StatusExpiringSoon Status = "expiring_soon" // within 7 days
	StatusExpired      Status = "expired"
)

// Waiver exempts one assertion set location from blocking on an
// invalid verdict. It mirrors the TOML structure plus runtime status.
type Waiver struct {
	ID        string `toml:"id"`
	Location  string `toml:"location"`
	Reason    string `toml:"reason"`
	Owner     string `toml:"owner"`
	CreatedAt string `toml:"created_at"`
	ExpiresAt string `toml:"expires_at"`

	// Populated by Load.
	OriginalIndex int    `toml:"-"`
	Status        Status `toml:"-"`
}

// Registry is the top-level structure of .specguard/waivers.toml.
type Registry struct {
	Waivers []Waiver `toml:"waiver"`
}
