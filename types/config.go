package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose  bool           `mapstructure:"verbose"`
	Config   string         `mapstructure:"config"`
	User     UserConfig     `mapstructure:"user"`
	Store    StoreConfig    `mapstructure:"store"`
	Server   ServerConfig   `mapstructure:"server"`
	Payments PaymentsConfig `mapstructure:"payments"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
}

// UserConfig identifies the local user for per-user operations.
type UserConfig struct {
	ID string `mapstructure:"id" validate:"omitempty,excludesall=/\\"`
}

// StoreConfig holds shared namespace settings.
type StoreConfig struct {
	// Path overrides the shared namespace directory. Empty means resolve
	// through the standard location chain.
	Path string `mapstructure:"path"`
}

// ServerConfig holds settings for the local HTTP API.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// PaymentsConfig holds settings for the payments gateway collaborator.
type PaymentsConfig struct {
	BaseURL string `mapstructure:"baseUrl" validate:"omitempty,url"`
	// RequestTimeoutSeconds controls the HTTP client timeout for gateway calls
	RequestTimeoutSeconds int    `mapstructure:"requestTimeoutSeconds" validate:"omitempty,min=1,max=600"`
	Country               string `mapstructure:"country" validate:"omitempty,len=2"`
}

// ArchiveConfig holds settings for the task archive database.
type ArchiveConfig struct {
	Path string `mapstructure:"path"`
}
