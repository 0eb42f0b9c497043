package misc

import (
	log "unknwon.dev/clog/v2"
)

// SetDefaultLog (re)initializes the console logger. Calling it again replaces
// the previous console logger.
func SetDefaultLog(verbose bool) error {
	level := log.LevelInfo
	if verbose {
		level = log.LevelTrace
	}
	return log.NewConsole(0, log.ConsoleConfig{
		Level: level,
	})
}
