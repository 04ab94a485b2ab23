package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DefaultMaxMessageBytes is the send and receive limit used when none is configured.
const DefaultMaxMessageBytes = 1 << 30

// Client calls the caching service. Every call's duration is logged at debug level.
type Client struct {
	conn   *grpc.ClientConn
	logger *zap.Logger
}

// Dial creates a client for the service at target (host:port). The connection is
// established lazily; connection failures are returned by the calls.
func Dial(target string, maxMessageBytes int, logger *zap.Logger, opts ...grpc.DialOption) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxMessageBytes <= 0 {
		maxMessageBytes = DefaultMaxMessageBytes
	}

	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.CallContentSubtype(ContentSubtype),
			grpc.MaxCallRecvMsgSize(maxMessageBytes),
			grpc.MaxCallSendMsgSize(maxMessageBytes),
		),
		grpc.WithChainUnaryInterceptor(logDurations(logger)),
	}

	conn, err := grpc.NewClient(target, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", target, err)
	}
	return &Client{conn: conn, logger: logger}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	return c.conn.Invoke(ctx, FullMethod(method), in, out)
}

// GetVintageByID returns the vintage record, or {} when it does not exist.
func (c *Client) GetVintageByID(ctx context.Context, vintageID string) (json.RawMessage, error) {
	out := new(VintageResponse)
	if err := c.invoke(ctx, MethodGetVintageByID, &VintageID{VintageID: vintageID}, out); err != nil {
		return nil, err
	}
	return json.RawMessage(out.SerializedVintage), nil
}

// GetVintagesByIDs returns the records that exist, in request order.
func (c *Client) GetVintagesByIDs(ctx context.Context, vintageIDs []string) ([]json.RawMessage, error) {
	out := new(VintagesResponse)
	if err := c.invoke(ctx, MethodGetVintagesByIDs, &VintageIDs{VintageIDs: vintageIDs}, out); err != nil {
		return nil, err
	}
	records := make([]json.RawMessage, len(out.SerializedVintages))
	for i, s := range out.SerializedVintages {
		records[i] = json.RawMessage(s)
	}
	return records, nil
}

// GetVintageTitleByID returns the title, or "" when the vintage does not exist.
func (c *Client) GetVintageTitleByID(ctx context.Context, vintageID string) (string, error) {
	out := new(TitleResponse)
	if err := c.invoke(ctx, MethodGetVintageTitleByID, &VintageID{VintageID: vintageID}, out); err != nil {
		return "", err
	}
	return out.VintageTitle, nil
}

// GetVintageTitlesByIDs returns one title per requested id, "" for misses.
func (c *Client) GetVintageTitlesByIDs(ctx context.Context, vintageIDs []string) ([]string, error) {
	out := new(TitlesResponse)
	if err := c.invoke(ctx, MethodGetVintageTitlesByIDs, &VintageIDs{VintageIDs: vintageIDs}, out); err != nil {
		return nil, err
	}
	return out.VintageTitles, nil
}

// GetPriceByVintageID returns the price, or 0 when unknown.
func (c *Client) GetPriceByVintageID(ctx context.Context, vintageID string) (float64, error) {
	out := new(PriceResponse)
	if err := c.invoke(ctx, MethodGetPriceByVintageID, &VintageID{VintageID: vintageID}, out); err != nil {
		return 0, err
	}
	return out.Price, nil
}

// GetPricesByVintageIDs returns one price per requested id, 0 for misses.
func (c *Client) GetPricesByVintageIDs(ctx context.Context, vintageIDs []string) ([]float64, error) {
	out := new(PricesResponse)
	if err := c.invoke(ctx, MethodGetPricesByVintageIDs, &VintageIDs{VintageIDs: vintageIDs}, out); err != nil {
		return nil, err
	}
	return out.Prices, nil
}

// GetVintageIDsByWineID returns the vintages of a wine, empty when it has none.
func (c *Client) GetVintageIDsByWineID(ctx context.Context, wineID string) ([]string, error) {
	out := new(VintageIDs)
	if err := c.invoke(ctx, MethodGetVintageIDsByWineID, &WineID{WineID: wineID}, out); err != nil {
		return nil, err
	}
	return out.VintageIDs, nil
}

// GetVintageIDsByWineIDs returns the vintages of every wine, flattened.
func (c *Client) GetVintageIDsByWineIDs(ctx context.Context, wineIDs []string) ([]string, error) {
	out := new(VintageIDs)
	if err := c.invoke(ctx, MethodGetVintageIDsByWineIDs, &WineIDs{WineIDs: wineIDs}, out); err != nil {
		return nil, err
	}
	return out.VintageIDs, nil
}

// GetWineIDByVintageID returns the parent wine, or "0" when the vintage does not exist.
func (c *Client) GetWineIDByVintageID(ctx context.Context, vintageID string) (string, error) {
	out := new(WineID)
	if err := c.invoke(ctx, MethodGetWineIDByVintageID, &VintageID{VintageID: vintageID}, out); err != nil {
		return "", err
	}
	return out.WineID, nil
}

// GetWineIDsByVintageIDs returns one wine id per requested vintage, "0" for misses.
func (c *Client) GetWineIDsByVintageIDs(ctx context.Context, vintageIDs []string) ([]string, error) {
	out := new(WineIDs)
	if err := c.invoke(ctx, MethodGetWineIDsByVintageIDs, &VintageIDs{VintageIDs: vintageIDs}, out); err != nil {
		return nil, err
	}
	return out.WineIDs, nil
}

// GetUnorderedWineIDsByVintageIDs returns the wine ids of the vintages that exist, in no
// particular order.
func (c *Client) GetUnorderedWineIDsByVintageIDs(ctx context.Context, vintageIDs []string) ([]string, error) {
	out := new(WineIDs)
	if err := c.invoke(ctx, MethodGetUnorderedWineIDsByVintageIDs, &VintageIDs{VintageIDs: vintageIDs}, out); err != nil {
		return nil, err
	}
	return out.WineIDs, nil
}

// GetBestVintageIDByWineID returns the best vintage of a wine, or "0".
func (c *Client) GetBestVintageIDByWineID(ctx context.Context, wineID string) (string, error) {
	out := new(VintageID)
	if err := c.invoke(ctx, MethodGetBestVintageIDByWineID, &WineID{WineID: wineID}, out); err != nil {
		return "", err
	}
	return out.VintageID, nil
}

// GetBestVintageIDsByWineIDs returns one best vintage per requested wine, "0" for misses.
func (c *Client) GetBestVintageIDsByWineIDs(ctx context.Context, wineIDs []string) ([]string, error) {
	out := new(VintageIDs)
	if err := c.invoke(ctx, MethodGetBestVintageIDsByWineIDs, &WineIDs{WineIDs: wineIDs}, out); err != nil {
		return nil, err
	}
	return out.VintageIDs, nil
}

// GetUnorderedBestVintageIDsByWineIDs returns the best vintages of the wines that have
// any, in no particular order.
func (c *Client) GetUnorderedBestVintageIDsByWineIDs(ctx context.Context, wineIDs []string) ([]string, error) {
	out := new(VintageIDs)
	if err := c.invoke(ctx, MethodGetUnorderedBestVintageIDsByWineIDs, &WineIDs{WineIDs: wineIDs}, out); err != nil {
		return nil, err
	}
	return out.VintageIDs, nil
}

// GetHighRatedVintageIDsFromWineID returns the high-rated vintages of a wine.
func (c *Client) GetHighRatedVintageIDsFromWineID(ctx context.Context, wineID string) ([]string, error) {
	out := new(VintageIDs)
	if err := c.invoke(ctx, MethodGetHighRatedVintageIDsFromWineID, &WineID{WineID: wineID}, out); err != nil {
		return nil, err
	}
	return out.VintageIDs, nil
}

// GetHighRatedVintageIDsFromWineIDs returns the high-rated vintages of every wine, flattened.
func (c *Client) GetHighRatedVintageIDsFromWineIDs(ctx context.Context, wineIDs []string) ([]string, error) {
	out := new(VintageIDs)
	if err := c.invoke(ctx, MethodGetHighRatedVintageIDsFromWineIDs, &WineIDs{WineIDs: wineIDs}, out); err != nil {
		return nil, err
	}
	return out.VintageIDs, nil
}

// StreamVintagesByIDs calls fn for every record that exists, in request order.
func (c *Client) StreamVintagesByIDs(ctx context.Context, vintageIDs []string, fn func(json.RawMessage) error) (err error) {
	start := time.Now()
	defer func() {
		c.logger.Debug("Call finished",
			zap.String("method", FullMethod(MethodStreamVintagesByIDs)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cs, err := c.conn.NewStream(ctx, &ServiceDesc.Streams[0], FullMethod(MethodStreamVintagesByIDs))
	if err != nil {
		return err
	}
	stream := &grpc.GenericClientStream[VintageIDs, VintageResponse]{ClientStream: cs}
	if err := stream.Send(&VintageIDs{VintageIDs: vintageIDs}); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}

	for {
		msg, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(json.RawMessage(msg.SerializedVintage)); err != nil {
			return err
		}
	}
}
