package configfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/alloon/photi-go/internal/env"
	"gopkg.in/yaml.v3"
)

type profileConfig struct {
	BaseURL         string `toml:"base_url" yaml:"base_url"`
	AccessToken     string `toml:"access_token" yaml:"access_token"`
	RefreshToken    string `toml:"refresh_token" yaml:"refresh_token"`
	CredentialsFile string `toml:"credentials_file" yaml:"credentials_file"`
	LogLevel        string `toml:"log_level" yaml:"log_level"`
	RetryMax        int    `toml:"retry_max" yaml:"retry_max"`
}

var (
	profileConfigs        map[string]*profileConfig
	profileConfigsError   error
	profileConfigsOnce    sync.Once
	ErrUnsupportedFormat  = errors.New("unsupported config file format")
	ErrInvalidRetryConfig = errors.New("retry_max must not be negative")
)

func CredentialsFromConfigFile() (string, string, error) {
	profile, err := getProfile()
	if err != nil || profile == nil {
		return "", "", err
	} else if profile.AccessToken == "" || profile.RefreshToken == "" {
		return "", "", nil
	}
	return profile.AccessToken, profile.RefreshToken, nil
}

func BaseURLFromConfigFile() (string, error) {
	profile, err := getProfile()
	if err != nil || profile == nil {
		return "", err
	}
	return strings.TrimSpace(profile.BaseURL), nil
}

func CredentialsFileFromConfigFile() (string, error) {
	profile, err := getProfile()
	if err != nil || profile == nil {
		return "", err
	}
	return profile.CredentialsFile, nil
}

func LogLevelFromConfigFile() (string, error) {
	profile, err := getProfile()
	if err != nil || profile == nil {
		return "", err
	}
	return strings.ToLower(profile.LogLevel), nil
}

func RetryMaxFromConfigFile() (int, bool, error) {
	profile, err := getProfile()
	if err != nil || profile == nil {
		return 0, false, err
	} else if profile.RetryMax < 0 {
		return 0, false, ErrInvalidRetryConfig
	}
	return profile.RetryMax, profile.RetryMax > 0, nil
}

func getProfile() (*profileConfig, error) {
	if err := load(); err != nil {
		return nil, err
	}
	profileName := env.ProfileFromEnvironment()
	if profileName == "" {
		profileName = "default"
	}
	profile, ok := profileConfigs[profileName]
	if !ok || profile == nil {
		return nil, nil
	}
	return profile, nil
}

func load() error {
	profileConfigsOnce.Do(func() {
		profileConfigsError = _load()
	})
	return profileConfigsError
}

func _load() error {
	configFilePath := env.ConfigFileFromEnvironment()
	if configFilePath == "" {
		configFilePath = getDefaultConfigFilePath()
	}
	data, err := os.ReadFile(configFilePath)
	if os.IsNotExist(err) {
		profileConfigs = nil
		return nil
	} else if err != nil {
		return err
	}

	configs := make(map[string]*profileConfig)
	switch strings.ToLower(filepath.Ext(configFilePath)) {
	case ".toml", "":
		err = toml.Unmarshal(data, &configs)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &configs)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return err
	}
	profileConfigs = configs
	return nil
}

// DefaultConfigDir is where the config file and stored credentials live by default.
func DefaultConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}
	return filepath.Join(homeDir, ".config", "photi")
}

func getDefaultConfigFilePath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}
