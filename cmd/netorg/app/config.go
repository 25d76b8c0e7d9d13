package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/netorganizer/netorg/pkg/constants"
	"github.com/netorganizer/netorg/pkg/errors"
)

// Configuration file keys. The file is flat JSON; dotted keys are not
// nested.
const (
	KeyAPIKey      = "api_key"
	KeyDevicesYML  = "devices_yml"
	KeyOrgID       = "org_id"
	KeyNetworkID   = "network_id"
	KeySerialID    = "serial_id"
	KeyVLANID      = "vlan_id"
	KeyVLANSubnet  = "vlan_subnet"
	KeySNAHost     = "sna.manager.host"
	KeySNAUsername = "sna.manager.username"
	KeySNAPassword = "sna.manager.password"
	KeySNAInsecure = "sna.manager.insecure"
)

// keyDelimiter keeps viper from splitting dotted keys into nested maps.
const keyDelimiter = "::"

// Config holds the application configuration loaded from the config file,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string
	DryRun  bool

	// Config file
	ConfigFile string

	// Meraki settings
	APIKey     string
	DevicesYML string
	OrgID      string
	NetworkID  string
	SerialID   string
	VLANID     string
	VLANSubnet string

	// Secure Network Analytics settings
	SNAHost     string
	SNAUsername string
	SNAPassword string
	SNAInsecure bool

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// DefaultConfigFile returns ~/.netorg.cfg.
func DefaultConfigFile() string {
	home, err := homedir.Dir()
	if err != nil {
		return constants.ConfigFileName
	}
	return filepath.Join(home, constants.ConfigFileName)
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (NETORG_API_KEY, NETORG_SNA_MANAGER_HOST, ...)
// 3. .env files
// 4. Config file (~/.netorg.cfg)
// 5. Defaults
func LoadConfig(path string) (*Config, error) {
	loadEnvFiles()

	v := newViper()
	if path == "" {
		path = DefaultConfigFile()
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.NewConfigError("config", "cannot expand "+path, err)
	}
	v.SetConfigFile(path)
	v.SetConfigType("json")

	// A missing file leaves environment variables and defaults
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+path, err)
		}
	}

	return &Config{
		ConfigFile: path,

		APIKey:     v.GetString(KeyAPIKey),
		DevicesYML: v.GetString(KeyDevicesYML),
		OrgID:      v.GetString(KeyOrgID),
		NetworkID:  v.GetString(KeyNetworkID),
		SerialID:   v.GetString(KeySerialID),
		VLANID:     v.GetString(KeyVLANID),
		VLANSubnet: v.GetString(KeyVLANSubnet),

		SNAHost:     v.GetString(KeySNAHost),
		SNAUsername: v.GetString(KeySNAUsername),
		SNAPassword: v.GetString(KeySNAPassword),
		SNAInsecure: v.GetBool(KeySNAInsecure),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}, nil
}

// Save writes the persistent settings to the config file, readable by the
// owner only.
func (c *Config) Save() error {
	v := newViper()
	v.Set(KeyAPIKey, c.APIKey)
	v.Set(KeyDevicesYML, c.DevicesYML)
	v.Set(KeyOrgID, c.OrgID)
	v.Set(KeyNetworkID, c.NetworkID)
	v.Set(KeySerialID, c.SerialID)
	v.Set(KeyVLANID, c.VLANID)
	v.Set(KeyVLANSubnet, c.VLANSubnet)
	if c.SNAHost != "" {
		v.Set(KeySNAHost, c.SNAHost)
		v.Set(KeySNAUsername, c.SNAUsername)
		v.Set(KeySNAPassword, c.SNAPassword)
		v.Set(KeySNAInsecure, c.SNAInsecure)
	}

	path := c.ConfigFile
	if path == "" {
		path = DefaultConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("mkdir", filepath.Dir(path), err)
	}
	return writeJSONConfig(v, path)
}

// writeJSONConfig writes v as JSON to path. viper picks the encoder from
// the file extension, so the settings go to a ".json" temp file first and
// are renamed onto path.
func writeJSONConfig(v *viper.Viper, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.json")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("create", tmpName, err)
	}

	v.SetConfigType("json")
	if err := v.WriteConfigAs(tmpName); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err := os.Chmod(tmpName, constants.SecureFilePermissions); err != nil {
		return errors.WrapIO("chmod", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

// HasMeraki returns true if every Meraki setting is present.
func (c *Config) HasMeraki() bool {
	return c.APIKey != "" && c.NetworkID != "" && c.SerialID != "" && c.VLANID != "" && c.VLANSubnet != ""
}

// HasSNA returns true if the analytics manager is configured.
func (c *Config) HasSNA() bool {
	return c.SNAHost != "" && c.SNAUsername != ""
}

// UpdateFromFlags updates config values from parsed command flags.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

func newViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyDevicesYML, constants.DefaultDevicesFile)
	return v
}

// loadEnvFiles loads environment variables from .env files. Variables
// already set are kept.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
