/*
Package log provides structured logging for Quarry built on zerolog.

A single global logger is initialized once at process start and shared by
all components:

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
	})

Components derive child loggers carrying their identity so every line can
be attributed and filtered:

	logger := log.WithComponent("scheduler")
	logger.Info().Str("volume", id).Msg("selecting pools")

Field helpers exist for the identifiers that appear throughout the control
plane: WithNode, WithPool, WithVolume and WithNexus.

Console output (with RFC3339 timestamps) is the default for interactive
use; JSONOutput switches to machine-readable lines for log shipping.
*/
package log
