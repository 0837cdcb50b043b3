package config

// SettingsFileName is the settings file looked up in the working directory.
const SettingsFileName = ".remake.yaml"

// Settingsfile represents the structure of the .remake.yaml settings file.
type Settingsfile struct {
	Makefiles      []string `yaml:"makefiles"`
	Ignore         []string `yaml:"ignore"`
	Journal        string   `yaml:"journal"`
	OnFileConflict string   `yaml:"on_file_conflict"`
	Progress       *bool    `yaml:"progress"`
	ProgressLog    string   `yaml:"progress_log"`
}
