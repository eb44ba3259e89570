package config

const (
	defaultConfigLocation    = "~/.config/slated/config.toml"
	defaultWorkspaceDir      = "~/.local/share/slated/workspace"
	defaultLogDir            = "~/.local/share/slated/logs"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultMirrorConcurrency = 4
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			LogDir:       defaultLogDir,
		},
		Mirror: Mirror{
			OrganizeBy:   []string{"show", "scene"},
			Concurrency:  defaultMirrorConcurrency,
			VerifyCopies: true,
		},
		Writeback: Writeback{
			KeepBackups: false,
		},
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
	}
}
