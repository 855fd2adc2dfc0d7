package env

import (
	"os"
	"strings"
)

const (
	environmentVariableNamePhotiBaseURL         = "PHOTI_BASE_URL"
	environmentVariableNamePhotiAccessToken     = "PHOTI_ACCESS_TOKEN"
	environmentVariableNamePhotiRefreshToken    = "PHOTI_REFRESH_TOKEN"
	environmentVariableNamePhotiConfigFile      = "PHOTI_CONFIG_FILE"
	environmentVariableNamePhotiProfile         = "PHOTI_PROFILE"
	environmentVariableNamePhotiLogLevel        = "PHOTI_LOG_LEVEL"
	environmentVariableNamePhotiCredentialsFile = "PHOTI_CREDENTIALS_FILE"
)

func CredentialsFromEnvironment() (string, string) {
	accessToken := os.Getenv(environmentVariableNamePhotiAccessToken)
	refreshToken := os.Getenv(environmentVariableNamePhotiRefreshToken)
	if accessToken == "" || refreshToken == "" {
		return "", ""
	}
	return accessToken, refreshToken
}

func BaseURLFromEnvironment() string {
	return strings.TrimSpace(os.Getenv(environmentVariableNamePhotiBaseURL))
}

func ConfigFileFromEnvironment() string {
	return os.Getenv(environmentVariableNamePhotiConfigFile)
}

func ProfileFromEnvironment() string {
	return os.Getenv(environmentVariableNamePhotiProfile)
}

func LogLevelFromEnvironment() string {
	return strings.ToLower(strings.TrimSpace(os.Getenv(environmentVariableNamePhotiLogLevel)))
}

func CredentialsFileFromEnvironment() string {
	return os.Getenv(environmentVariableNamePhotiCredentialsFile)
}
