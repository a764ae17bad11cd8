package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
)

// DataDirName holds per-checkout state under the project root
const DataDirName = ".govctl"

// DefaultNotificationTimeout is how long a notification stays visible
const DefaultNotificationTimeout = 5 * time.Second

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		projectRoot = FindProjectRoot()
	}
	loadEnvFiles(projectRoot)

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, DataDirName),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		PrivateKey:     v.GetString("private_key"),
	}
	if cfg.PrivateKey == "" {
		cfg.PrivateKey = os.Getenv("PRIVATE_KEY")
	}

	configPath := filepath.Join(projectRoot, FileName)
	file, err := loadGovctlFile(configPath)
	if err != nil {
		return nil, err
	}
	if file != nil {
		cfg.ConfigFile = configPath
		if cfg.DAO, err = resolveDAO(file.DAO); err != nil {
			return nil, err
		}
		cfg.Parameters = resolveParameters(file.Parameters)
		cfg.VerifyAPIURL = file.VerifyAPIURL
	}
	if url := v.GetString("verify_api_url"); url != "" {
		cfg.VerifyAPIURL = url
	}

	cfg.NotificationTimeout = DefaultNotificationTimeout
	if file != nil && file.NotificationTimeout != "" {
		d, err := time.ParseDuration(file.NotificationTimeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid notification_timeout %q", file.NotificationTimeout)
		}
		cfg.NotificationTimeout = d
	}

	// --network, then GOVCTL_NETWORK, then config.local.json, then govctl.toml
	networkName := v.GetString("network")
	if networkName == "" && file != nil {
		networkName = file.DefaultNetwork
	}
	if networkName != "" {
		network, err := resolveNetwork(file, networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
	}

	if account := v.GetString("account"); account != "" {
		if !common.IsHexAddress(account) {
			return nil, fmt.Errorf("account: %w: %q", domain.ErrInvalidAddress, account)
		}
		cfg.Account = common.HexToAddress(account)
	}

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to the nearest
// govctl.toml. Outside a project the current directory is used.
func FindProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// config.local.json supplies network and account
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	v.SetEnvPrefix("GOVCTL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	_ = v.ReadInConfig()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})

	return v
}
