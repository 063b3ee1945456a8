package scroll

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/dSearch/cmd/util"
	"github.com/ValentinKolb/dSearch/rpc/message"
	"github.com/ValentinKolb/dSearch/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Logger is the logger of the cli
var Logger = logger.GetLogger("cli")

var (
	// ScrollCommands represents the scroll request command group
	ScrollCommands = &cobra.Command{
		Use:   "scroll",
		Short: "Work with scroll requests",
	}

	encodeCmd = &cobra.Command{
		Use:   "encode [scroll-id]",
		Short: "Serializes a scroll request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildRequest(args[0])
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

			data, err := s.Serialize(req, config.WireVersion)
			if err != nil {
				return err
			}
			Logger.Debugf("encoded %s as %d bytes (%s, %s)", req.Name(), len(data), s.Format(), config.WireVersion)
			fmt.Fprintln(cmd.OutOrStdout(), util.FormatPayload(data, s.Format()))
			return nil
		},
	}
	decodeCmd = &cobra.Command{
		Use:   "decode [payload]",
		Short: "Deserializes a scroll request (hex for binary, reads stdin if no payload is given)",
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

			var req message.ScrollRequest
			if err := s.Deserialize(data, config.WireVersion, &req); err != nil {
				return err
			}

			out, err := json.MarshalIndent(&req, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			for k, v := range req.Headers {
				fmt.Fprintf(cmd.OutOrStdout(), "header %s=%s\n", k, v)
			}
			return nil
		},
	}
	describeCmd = &cobra.Command{
		Use:   "describe [scroll-id]",
		Short: "Prints the HTTP request a client would send for a scroll request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildRequest(args[0])
			if err != nil {
				return err
			}

			d, err := transport.NewRequestDescriptor(req)
			if err != nil {
				return err
			}

			config, err := util.GetClientConfig()
			if err != nil {
				return err
			}
			httpReq, err := d.HTTPRequest(context.Background(), config.BaseURL)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), d.String())
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", httpReq.Method, httpReq.URL)
			return nil
		},
	}
)

func init() {
	key := "keep-alive"
	ScrollCommands.PersistentFlags().String(key, "", util.WrapString("How long the server keeps the scroll cursor alive (e.g. 30s, 5m, -1 for no expiry)"))

	key = "header"
	ScrollCommands.PersistentFlags().StringToString(key, nil, util.WrapString("Headers of the request (key=value, comma separated)"))

	// Add subcommands
	ScrollCommands.AddCommand(encodeCmd)
	ScrollCommands.AddCommand(decodeCmd)
	ScrollCommands.AddCommand(describeCmd)
}

// buildRequest creates a scroll request from the arguments and flags
func buildRequest(scrollID string) (*message.ScrollRequest, error) {
	req := message.NewScrollRequest(scrollID)
	if keepAlive := viper.GetString("keep-alive"); keepAlive != "" {
		if _, err := req.SetKeepAliveString(keepAlive); err != nil {
			return nil, err
		}
	}
	for k, v := range viper.GetStringMapString("header") {
		req.PutHeader(k, v)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}
