package auth

import "os"

const (
	// SecretEnvVar is the environment variable the signing secret is read
	// from by default.
	SecretEnvVar = "JWT_SECRET"

	devFallbackSecret = "CHANGE_ME_DEV_SECRET"
)

// SecretFromEnv reads the signing secret from the named environment
// variable and scrubs the variable afterwards, so the secret does not
// outlive startup in the process environment.
//
// When the variable is empty a development-only fallback is returned and
// fallback is true; callers running in production must refuse it.
func SecretFromEnv(varname string, getfn func(string) string, setfn func(string, string) error) (secret []byte, fallback bool) {
	if getfn == nil {
		getfn = os.Getenv
	}
	if setfn == nil {
		setfn = os.Setenv
	}
	val := getfn(varname)
	setfn(varname, "")
	if val == "" {
		return []byte(devFallbackSecret), true
	}
	return []byte(val), false
}
