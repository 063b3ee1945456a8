package verify

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dSearch/cmd/util"
	"github.com/ValentinKolb/dSearch/rpc/compat"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// VerifyCmd checks the codecs against golden wire vectors
var VerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Checks the codecs against golden wire vectors",
	Long: `Checks the codecs against golden wire vectors.

Every vector is parsed from its text form, encoded for its protocol version and
compared with the expected bytes. The expected bytes are then decoded and encoded
again. Without --vectors the vectors shipped with dSearch are used.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	key := "vectors"
	VerifyCmd.Flags().String(key, "", util.WrapString("Path to a TOML file with [[vector]] tables"))
}

func run(cmd *cobra.Command, _ []string) error {
	corpus := compat.Default()
	if path := viper.GetString("vectors"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read vectors: %w", err)
		}
		if corpus, err = compat.Load(data); err != nil {
			return err
		}
	}

	failed := 0
	for _, result := range corpus.Verify() {
		status := "ok"
		if result.Err != nil {
			status = "FAIL: " + result.Err.Error()
			failed++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-45s %-7s %s\n", result.Vector.Name, result.Vector.Version, status)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d vectors, %d failed\n", len(corpus.Vectors), failed)
	if failed > 0 {
		return fmt.Errorf("%d vectors failed", failed)
	}
	return nil
}
