package config

// LocalConfig represents per-checkout govctl settings
type LocalConfig struct {
	Network string `json:"network"`
	Account string `json:"account,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyNetwork ConfigKey = "network"
	ConfigKeyAccount ConfigKey = "account"
)

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{}
}

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyNetwork,
		ConfigKeyAccount,
	}
}

// IsValidConfigKey checks if a key is valid
func IsValidConfigKey(key string) bool {
	for _, validKey := range ValidConfigKeys() {
		if string(validKey) == key || (key == "net" && validKey == ConfigKeyNetwork) {
			return true
		}
	}
	return false
}

// NormalizeConfigKey normalizes a config key (e.g., "net" -> "network")
func NormalizeConfigKey(key string) ConfigKey {
	if key == "net" {
		return ConfigKeyNetwork
	}
	return ConfigKey(key)
}
