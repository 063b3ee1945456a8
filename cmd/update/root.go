package update

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ValentinKolb/dSearch/cmd/util"
	"github.com/ValentinKolb/dSearch/rpc/message"
	"github.com/ValentinKolb/dSearch/rpc/serializer"
	"github.com/ValentinKolb/dSearch/rpc/xcontent"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Logger is the logger of the cli
var Logger = logger.GetLogger("cli")

var (
	// UpdateCommands represents the update response command group
	UpdateCommands = &cobra.Command{
		Use:   "update",
		Short: "Work with update responses",
	}

	parseCmd = &cobra.Command{
		Use:   "parse [json]",
		Short: "Reads an update response from its JSON body and prints the fields (reads stdin if no body is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := util.ReadArg(args)
			if err != nil {
				return err
			}

			resp, err := parse(body)
			if err != nil && resp == nil {
				return err
			}
			printResponse(cmd, resp)
			return err
		},
	}
	encodeCmd = &cobra.Command{
		Use:   "encode [json]",
		Short: "Reads an update response from its JSON body and serializes it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := util.ReadArg(args)
			if err != nil {
				return err
			}
			resp, err := parse(body)
			if err != nil {
				return err
			}

			config, err := util.GetClientConfig()
			if err != nil {
				return err
			}
			s, err := util.GetSerializer()
			if err != nil {
				return err
			}

			data, err := s.Serialize(resp, config.WireVersion)
			if err != nil {
				return err
			}
			if resp.HasBulkStatus() && s.Format() == serializer.FormatBinary {
				Logger.Warningf("status %s is not part of the binary form and was dropped", resp.BulkStatus)
			}
			fmt.Fprintln(cmd.OutOrStdout(), util.FormatPayload(data, s.Format()))
			return nil
		},
	}
	decodeCmd = &cobra.Command{
		Use:   "decode [payload]",
		Short: "Deserializes an update response (hex for binary, reads stdin if no payload is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := util.GetClientConfig()
			if err != nil {
				return err
			}
			s, err := util.GetSerializer()
			if err != nil {
				return err
			}

			data, err := util.ReadPayload(args, s.Format())
			if err != nil {
				return err
			}

			var resp message.UpdateResponse
			if err := s.Deserialize(data, config.WireVersion, &resp); err != nil {
				return err
			}

			out, err := json.MarshalIndent(&resp, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
)

func init() {
	// Add subcommands
	UpdateCommands.AddCommand(parseCmd)
	UpdateCommands.AddCommand(encodeCmd)
	UpdateCommands.AddCommand(decodeCmd)
}

// parse reads an update response from body. In lenient mode a response with
// the well typed fields is returned together with the mismatches.
func parse(body []byte) (*message.UpdateResponse, error) {
	var resp message.UpdateResponse
	err := resp.ParseXContent(body, xcontent.WithStrictMode(viper.GetBool("strict")))
	if err == nil {
		return &resp, nil
	}

	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			Logger.Warningf("%v", e)
		}
		return &resp, fmt.Errorf("%d fields could not be read", len(joined.Unwrap()))
	}
	return nil, err
}

func printResponse(cmd *cobra.Command, resp *message.UpdateResponse) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "index:   %s\n", resp.Index)
	fmt.Fprintf(w, "type:    %s\n", resp.Type)
	fmt.Fprintf(w, "id:      %s\n", resp.ID)
	fmt.Fprintf(w, "version: %d\n", resp.Version)
	fmt.Fprintf(w, "created: %t\n", resp.Created)
	if resp.HasBulkStatus() {
		fmt.Fprintf(w, "status:  %d %s\n", resp.BulkStatus.Code(), resp.BulkStatus)
	}
	if get := resp.GetResult; get != nil {
		fmt.Fprintf(w, "get:     found=%t version=%d source=%dB fields=%d\n", get.Exists, get.Version, len(get.Source), len(get.Fields))
	}
}
