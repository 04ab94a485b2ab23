package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"cache-service/core/rpc"

	"github.com/spf13/cobra"
)

var (
	queryTarget  string
	queryTimeout time.Duration
)

// queryCmd calls one caching method against a running service.
var queryCmd = &cobra.Command{
	Use:   "query <method> [ids...]",
	Short: "Call a caching method and print the result as JSON",
	Long: `Calls a method of a running caching service and prints its result as JSON.

Single-id methods take exactly one id. Examples:
  query get_vintage_title_by_id 7
  query get_best_vintage_ids_by_wine_ids 3 4 5
  query stream_vintages_by_ids 7 8`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryTarget, "target", "", "Service address (defaults to server.grpc_address on localhost)")
	queryCmd.Flags().DurationVar(&queryTimeout, "timeout", 30*time.Second, "Deadline of the call")
	RootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadEnvironment()
	if err != nil {
		return err
	}

	target := queryTarget
	if target == "" {
		target = cfg.Server.GRPCAddress
		if strings.HasPrefix(target, ":") {
			target = "localhost" + target
		}
	}

	client, err := rpc.Dial(target, cfg.Server.MaxMessageBytes, l)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
	defer cancel()

	result, err := callMethod(ctx, client, args[0], args[1:])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// callMethod dispatches method to client. Records come back as raw JSON so they print verbatim.
func callMethod(ctx context.Context, client *rpc.Client, method string, ids []string) (any, error) {
	single := func() (string, error) {
		if len(ids) != 1 {
			return "", fmt.Errorf("%s takes exactly one id, got %d", method, len(ids))
		}
		return ids[0], nil
	}

	switch method {
	case rpc.MethodGetVintageByID:
		id, err := single()
		if err != nil {
			return nil, err
		}
		return client.GetVintageByID(ctx, id)
	case rpc.MethodGetVintagesByIDs:
		return client.GetVintagesByIDs(ctx, ids)
	case rpc.MethodStreamVintagesByIDs:
		records := make([]json.RawMessage, 0, len(ids))
		err := client.StreamVintagesByIDs(ctx, ids, func(raw json.RawMessage) error {
			records = append(records, raw)
			return nil
		})
		return records, err
	case rpc.MethodGetVintageTitleByID:
		id, err := single()
		if err != nil {
			return nil, err
		}
		return client.GetVintageTitleByID(ctx, id)
	case rpc.MethodGetVintageTitlesByIDs:
		return client.GetVintageTitlesByIDs(ctx, ids)
	case rpc.MethodGetPriceByVintageID:
		id, err := single()
		if err != nil {
			return nil, err
		}
		return client.GetPriceByVintageID(ctx, id)
	case rpc.MethodGetPricesByVintageIDs:
		return client.GetPricesByVintageIDs(ctx, ids)
	case rpc.MethodGetVintageIDsByWineID:
		id, err := single()
		if err != nil {
			return nil, err
		}
		return client.GetVintageIDsByWineID(ctx, id)
	case rpc.MethodGetVintageIDsByWineIDs:
		return client.GetVintageIDsByWineIDs(ctx, ids)
	case rpc.MethodGetWineIDByVintageID:
		id, err := single()
		if err != nil {
			return nil, err
		}
		return client.GetWineIDByVintageID(ctx, id)
	case rpc.MethodGetWineIDsByVintageIDs:
		return client.GetWineIDsByVintageIDs(ctx, ids)
	case rpc.MethodGetUnorderedWineIDsByVintageIDs:
		return client.GetUnorderedWineIDsByVintageIDs(ctx, ids)
	case rpc.MethodGetBestVintageIDByWineID:
		id, err := single()
		if err != nil {
			return nil, err
		}
		return client.GetBestVintageIDByWineID(ctx, id)
	case rpc.MethodGetBestVintageIDsByWineIDs:
		return client.GetBestVintageIDsByWineIDs(ctx, ids)
	case rpc.MethodGetUnorderedBestVintageIDsByWineIDs:
		return client.GetUnorderedBestVintageIDsByWineIDs(ctx, ids)
	case rpc.MethodGetHighRatedVintageIDsFromWineID:
		id, err := single()
		if err != nil {
			return nil, err
		}
		return client.GetHighRatedVintageIDsFromWineID(ctx, id)
	case rpc.MethodGetHighRatedVintageIDsFromWineIDs:
		return client.GetHighRatedVintageIDsFromWineIDs(ctx, ids)
	default:
		return nil, fmt.Errorf("unknown method %q", method)
	}
}
