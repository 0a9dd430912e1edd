package config

const (
	defaultConfigPath = "~/.btc"
	defaultHost       = "127.0.0.1"
	defaultPort       = 8080
	defaultUsername   = "admin"
	defaultPassword   = ""
	defaultLogLevel   = "warn"
	defaultLogFormat  = "console"
)

const (
	keyHost      = "host"
	keyPort      = "port"
	keyUsername  = "username"
	keyPassword  = "password"
	keyLogLevel  = "log_level"
	keyLogFormat = "log_format"
)

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Host:      defaultHost,
		Port:      defaultPort,
		Username:  defaultUsername,
		Password:  defaultPassword,
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
	}
}
