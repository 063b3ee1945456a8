package util

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ValentinKolb/dSearch/rpc/common"
	"github.com/ValentinKolb/dSearch/rpc/serializer"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// instrumented is the serializer handed out by GetSerializer, kept for PrintMetrics
var instrumented *serializer.InstrumentedSerializer

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupCodecFlags adds the codec flags to a command
func SetupCodecFlags(cmd *cobra.Command) {
	key := "serializer"
	cmd.PersistentFlags().String(key, serializer.FormatBinary, WrapString("Serializer to use (binary, json)"))

	key = "wire-version"
	cmd.PersistentFlags().String(key, common.Current.String(), WrapString(fmt.Sprintf("Protocol version of the peer (%s - %s)", common.MinimumCompatible, common.Current)))

	key = "strict"
	cmd.PersistentFlags().Bool(key, false, WrapString("Fail on the first mistyped field when reading text instead of collecting all mismatches"))

	key = "base-url"
	cmd.PersistentFlags().String(key, "http://localhost:9200", WrapString("Server address used when rendering HTTP requests"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "info", WrapString("Log level (debug, info, warn, error)"))

	key = "print-metrics"
	cmd.PersistentFlags().Bool(key, false, WrapString("Print the serializer metrics in Prometheus format after the command"))
}

// InitClientConfig initializes configuration from environment variables
func InitClientConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dsearch")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() (*common.ClientConfig, error) {
	version, err := common.ParseVersion(viper.GetString("wire-version"))
	if err != nil {
		return nil, err
	}
	if err := common.CheckVersion(version); err != nil {
		return nil, err
	}

	conf := &common.ClientConfig{
		Serializer:  viper.GetString("serializer"),
		WireVersion: version,
		Strict:      viper.GetBool("strict"),
		BaseURL:     viper.GetString("base-url"),
		LogLevel:    viper.GetString("log-level"),
	}

	return conf, nil
}

// GetSerializer creates a serializer based on configuration.
// The serializer is instrumented, see PrintMetrics.
func GetSerializer() (serializer.IRPCSerializer, error) {
	s, err := serializer.New(viper.GetString("serializer"), viper.GetBool("strict"))
	if err != nil {
		return nil, err
	}
	instrumented = serializer.NewInstrumentedSerializer(s)
	return instrumented, nil
}

// PrintMetrics writes the metrics of the last serializer created by GetSerializer
// to w if --print-metrics is set
func PrintMetrics(w io.Writer) {
	if !viper.GetBool("print-metrics") || instrumented == nil {
		return
	}
	fmt.Fprintln(w)
	instrumented.WritePrometheus(w)
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// --------------------------------------------------------------------------
// Input Helper
// --------------------------------------------------------------------------

// ReadArg returns args[0] or, if there are no args or it is "-", all of stdin
func ReadArg(args []string) ([]byte, error) {
	if len(args) > 0 && args[0] != "-" {
		return []byte(args[0]), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

// ReadPayload reads the input like ReadArg. The input is hex for the binary
// serializer and used as is for any other.
func ReadPayload(args []string, format string) ([]byte, error) {
	data, err := ReadArg(args)
	if err != nil {
		return nil, err
	}
	if format != serializer.FormatBinary {
		return data, nil
	}
	decoded, err := hex.DecodeString(strings.Join(strings.Fields(string(data)), ""))
	if err != nil {
		return nil, fmt.Errorf("input is not valid hex: %w", err)
	}
	return decoded, nil
}

// FormatPayload renders serialized data for the terminal: hex for the binary
// serializer, unchanged text for any other
func FormatPayload(data []byte, format string) string {
	if format == serializer.FormatBinary {
		return hex.EncodeToString(data)
	}
	return string(data)
}
