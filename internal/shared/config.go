package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API         APIConfig         `toml:"api"`
	Auth        AuthConfig        `toml:"auth"`
	Publisher   PublisherConfig   `toml:"publisher"`
	RelatedItem RelatedItemConfig `toml:"related_item"`
}

// APIConfig contains DataCite endpoint settings.
type APIConfig struct {
	URL            string  `toml:"url"`
	UserAgent      string  `toml:"user_agent"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RateLimit      float64 `toml:"rate_limit"`
}

// AuthConfig contains repository credentials for Basic auth.
type AuthConfig struct {
	RepoID   string `toml:"repo_id"`
	Password string `toml:"password"`
}

// PublisherConfig identifies the publishing organisation placed on every DOI.
type PublisherConfig struct {
	Name       string `toml:"name"`
	Identifier string `toml:"identifier"`
	Scheme     string `toml:"scheme"`
	SchemeURI  string `toml:"scheme_uri"`
	Lang       string `toml:"lang"`
}

// RelatedItemConfig holds the default related item applied when a row
// carries no related_* columns.
type RelatedItemConfig struct {
	Title           string `toml:"title"`
	RelationType    string `toml:"relation_type"`
	PublicationYear string `toml:"publication_year"`
	ItemType        string `toml:"item_type"`
	Identifier      string `toml:"identifier"`
	IdentifierType  string `toml:"identifier_type"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ParseAuth splits a REPO_ID:PASSWORD credential pair.
func ParseAuth(auth string) (string, string, error) {
	if auth == "" {
		return "", "", ErrMissingCredentials
	}
	repoID, password, ok := strings.Cut(auth, ":")
	if !ok || repoID == "" {
		return "", "", fmt.Errorf("%w: auth must be in REPO_ID:PASSWORD format", ErrInvalidArgument)
	}
	return repoID, password, nil
}
