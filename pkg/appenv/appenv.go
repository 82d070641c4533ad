package appenv

import (
	"os"
	"strings"
)

// Env is the application runtime environment, read from APP_ENV.
type Env string

const (
	Production  Env = "production"
	Development Env = "development"
	Test        Env = "test"
)

// Current resolves APP_ENV. Anything unrecognized, including an empty
// value, is treated as production so a misconfigured deployment never
// accidentally runs with relaxed settings.
func Current() Env {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))) {
	case string(Development), "dev":
		return Development
	case string(Test):
		return Test
	default:
		return Production
	}
}

func IsProduction() bool  { return Current() == Production }
func IsDevelopment() bool { return Current() == Development }
func IsTest() bool        { return Current() == Test }
