package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Environment passed to extensions, mirroring the global configuration.
const (
	EnvDataDir   = "FINTRACK_DATA_DIR"
	EnvStore     = "FINTRACK_STORE"
	EnvLogLevel  = "FINTRACK_LOG_LEVEL"
	EnvLogPretty = "FINTRACK_LOG_PRETTY"
)

// RunExtension attempts to find and execute an external fin-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "fin-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Debug().Err(err).Str("extension", externalCmdName).Msg("extension not found in PATH")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	// Pass global flags as environment variables
	cmd.Env = append(os.Environ(),
		EnvDataDir+"="+cfg.DataDir,
		EnvStore+"="+cfg.Store,
		EnvLogLevel+"="+cfg.LogLevel,
		EnvLogPretty+"="+strconv.FormatBool(cfg.LogPretty),
	)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1 // Indicate that an attempt was made, but it failed
	}
	return true, 0
}
