package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eleven-am/transcribe-relay/internal/transcription"
)

type options struct {
	apiKey    string
	apiKeyEnv string
	envFile   string
	url       string
	rawRate   int
	rawChans  int
	chunk     time.Duration
	realtime  bool
	drain     time.Duration
	interim   bool
	logLevel  string
}

var opts options

var rootCmd = &cobra.Command{
	Use:   "transcribe-file <audio-file>",
	Short: "Stream an audio file through the speech relay and print transcripts",
	Long: `transcribe-file reads a WAV file (or raw 16-bit little-endian PCM), converts it to
16 kHz mono, streams it to the speech service in paced chunks and prints the
transcripts as they arrive. Final results end a line; interim results rewrite it.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), args[0], opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&opts.apiKey, "api-key", "", "speech service API key (overrides the environment)")
	flags.StringVar(&opts.apiKeyEnv, "api-key-env", transcription.DefaultAPIKeyEnv, "environment variable holding the API key")
	flags.StringVar(&opts.envFile, "env-file", ".env", "env file loaded before reading the API key")
	flags.StringVar(&opts.url, "url", transcription.DefaultListenURL, "speech service listen endpoint")
	flags.IntVar(&opts.rawRate, "raw-rate", transcription.DefaultSampleRate, "sample rate of raw PCM input")
	flags.IntVar(&opts.rawChans, "raw-channels", 1, "channel count of raw PCM input")
	flags.DurationVar(&opts.chunk, "chunk", 100*time.Millisecond, "audio per frame")
	flags.BoolVar(&opts.realtime, "realtime", true, "pace frames at playback speed")
	flags.DurationVar(&opts.drain, "drain", 3*time.Second, "how long to wait for late results after the last frame")
	flags.BoolVar(&opts.interim, "interim", true, "show interim results")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
