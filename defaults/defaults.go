package defaults

import (
	"path/filepath"
	"strings"

	"github.com/alloon/photi-go/conf"
	"github.com/alloon/photi-go/internal/configfile"
	"github.com/alloon/photi-go/internal/env"
)

const DefaultRetryMax = 2

func Credentials() (string, string, error) {
	accessToken, refreshToken := env.CredentialsFromEnvironment()
	if accessToken != "" && refreshToken != "" {
		return accessToken, refreshToken, nil
	}
	accessToken, refreshToken, err := configfile.CredentialsFromConfigFile()
	if err != nil {
		return "", "", err
	}
	if accessToken != "" && refreshToken != "" {
		return accessToken, refreshToken, nil
	}
	return "", "", nil
}

// BaseURL falls back to the production host when neither the environment
// nor the config file names one.
func BaseURL() (string, error) {
	normalize := func(baseURL string) string {
		if !strings.Contains(baseURL, "://") {
			baseURL = "https://" + baseURL
		}
		return strings.TrimRight(baseURL, "/")
	}

	if baseURL := env.BaseURLFromEnvironment(); baseURL != "" {
		return normalize(baseURL), nil
	}
	baseURL, err := configfile.BaseURLFromConfigFile()
	if err != nil {
		return "", err
	} else if baseURL != "" {
		return normalize(baseURL), nil
	}
	return conf.DefaultBaseURL, nil
}

func CredentialsFile() (string, error) {
	if path := env.CredentialsFileFromEnvironment(); path != "" {
		return path, nil
	}
	path, err := configfile.CredentialsFileFromConfigFile()
	if err != nil {
		return "", err
	} else if path != "" {
		return path, nil
	}
	return filepath.Join(configfile.DefaultConfigDir(), "credentials.json"), nil
}

func LogLevel() (string, error) {
	if level := env.LogLevelFromEnvironment(); level != "" {
		return level, nil
	}
	return configfile.LogLevelFromConfigFile()
}

func RetryMax() (int, error) {
	retryMax, ok, err := configfile.RetryMaxFromConfigFile()
	if err != nil {
		return 0, err
	} else if !ok {
		return DefaultRetryMax, nil
	}
	return retryMax, nil
}
