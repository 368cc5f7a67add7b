package testutil

import "os"

const (
	// Test credential environment variables
	TestTelegramToken   = "TEST_TELEGRAM_BOT_TOKEN"
	TestTelegramChannel = "TEST_TELEGRAM_CHANNEL_ID"
	TestDatabaseURL     = "TEST_DATABASE_URL"

	// Default test values when environment variables are not set
	DefaultTestToken   = "test-token"
	DefaultTestChannel = "@test-channel"
)

// GetTestValue returns a value from an environment variable or a default.
func GetTestValue(envVar, defaultValue string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return defaultValue
}

// GetTestTelegramToken returns the bot token used by integration tests.
func GetTestTelegramToken() string {
	return GetTestValue(TestTelegramToken, DefaultTestToken)
}

// GetTestTelegramChannel returns the channel id used by integration tests.
func GetTestTelegramChannel() string {
	return GetTestValue(TestTelegramChannel, DefaultTestChannel)
}

// GetTestDatabaseURL returns a connection string for store integration
// tests, empty when no database is available.
func GetTestDatabaseURL() string {
	return os.Getenv(TestDatabaseURL)
}
