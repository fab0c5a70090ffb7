package config

import "slices"

// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked; provider and
// server changes require a restart.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// TargetLanguagesChanged is true when the translation fan-out set
	// changed. New sessions pick up the new set; running sessions keep the
	// set they started with.
	TargetLanguagesChanged bool

	// KeywordsFileChanged is true when the keyword table path changed, which
	// triggers a keyword index rebuild.
	KeywordsFileChanged bool
}

// Any reports whether the diff contains at least one change.
func (d ConfigDiff) Any() bool {
	return d.LogLevelChanged || d.TargetLanguagesChanged || d.KeywordsFileChanged
}

// Diff compares old and new configs and returns what changed.
// Only tracks changes that are safe to apply without restart.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if !slices.Equal(old.Pipeline.TargetLanguages, new.Pipeline.TargetLanguages) {
		d.TargetLanguagesChanged = true
	}

	if old.Keywords.File != new.Keywords.File {
		d.KeywordsFileChanged = true
	}

	return d
}
