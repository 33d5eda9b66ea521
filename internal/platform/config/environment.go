package config

import (
	"fmt"
	"strings"
)

// Environment selects which configuration overlay is applied on top of base.yaml.
type Environment string

const (
	EnvironmentLocal      Environment = "local"
	EnvironmentProduction Environment = "production"
)

// ParseEnvironment accepts "local" or "production", case-insensitively.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(EnvironmentLocal):
		return EnvironmentLocal, nil
	case string(EnvironmentProduction):
		return EnvironmentProduction, nil
	default:
		return "", fmt.Errorf("%s is not a supported environment. Use either `local` or `production`", s)
	}
}

func (e Environment) String() string { return string(e) }
