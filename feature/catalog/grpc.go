package catalog

import (
	"context"
	"encoding/json"

	"cache-service/core/rpc"

	"google.golang.org/grpc/status"
)

// GRPCServer exposes a Service as the caching gRPC service.
type GRPCServer struct {
	service *Service
}

// NewGRPCServer creates the gRPC adapter for service.
func NewGRPCServer(service *Service) *GRPCServer {
	return &GRPCServer{service: service}
}

var _ rpc.CachingServer = (*GRPCServer)(nil)

// statusError maps the context errors a lookup can return onto gRPC codes.
func statusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.FromContextError(err).Err()
}

func serialize(records []json.RawMessage) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = string(r)
	}
	return out
}

func (g *GRPCServer) GetVintageByID(ctx context.Context, in *rpc.VintageID) (*rpc.VintageResponse, error) {
	raw, err := g.service.GetVintageByID(ctx, in.VintageID)
	if err != nil {
		return nil, statusError(err)
	}
	return &rpc.VintageResponse{SerializedVintage: string(raw)}, nil
}

func (g *GRPCServer) GetVintagesByIDs(ctx context.Context, in *rpc.VintageIDs) (*rpc.VintagesResponse, error) {
	records, err := g.service.GetVintagesByIDs(ctx, in.VintageIDs)
	if err != nil {
		return nil, statusError(err)
	}
	return &rpc.VintagesResponse{SerializedVintages: serialize(records)}, nil
}

func (g *GRPCServer) StreamVintagesByIDs(in *rpc.VintageIDs, stream rpc.VintageStream) error {
	err := g.service.StreamVintagesByIDs(stream.Context(), in.VintageIDs, func(raw json.RawMessage) error {
		return stream.Send(&rpc.VintageResponse{SerializedVintage: string(raw)})
	})
	return statusError(err)
}

func (g *GRPCServer) GetVintageTitleByID(ctx context.Context, in *rpc.VintageID) (*rpc.TitleResponse, error) {
	title, err := g.service.GetVintageTitleByID(ctx, in.VintageID)
	if err != nil {
		return nil, statusError(err)
	}
	return &rpc.TitleResponse{VintageTitle: title}, nil
}

func (g *GRPCServer) GetVintageTitlesByIDs(ctx context.Context, in *rpc.VintageIDs) (*rpc.TitlesResponse, error) {
	titles, err := g.service.GetVintageTitlesByIDs(ctx, in.VintageIDs)
	if err != nil {
		return nil, statusError(err)
	}
	return &rpc.TitlesResponse{VintageTitles: titles}, nil
}

func (g *GRPCServer) GetPriceByVintageID(ctx context.Context, in *rpc.VintageID) (*rpc.PriceResponse, error) {
	price, err := g.service.GetPriceByVintageID(ctx, in.VintageID)
	if err != nil {
		return nil, statusError(err)
	}
	return &rpc.PriceResponse{Price: price}, nil
}

func (g *GRPCServer) GetPricesByVintageIDs(ctx context.Context, in *rpc.VintageIDs) (*rpc.PricesResponse, error) {
	prices, err := g.service.GetPricesByVintageIDs(ctx, in.VintageIDs)
	if err != nil {
		return nil, statusError(err)
	}
	return &rpc.PricesResponse{Prices: prices}, nil
}

func (g *GRPCServer) GetVintageIDsByWineID(ctx context.Context, in *rpc.WineID) (*rpc.VintageIDs, error) {
	ids, err := g.service.GetVintageIDsByWineID(ctx, in.WineID)
	if err != nil {
		return nil, statusError(err)
	}
	return &rpc.VintageIDs{VintageIDs: ids}, nil
}

func (g *GRPCServer) GetVintageIDsByWineIDs(ctx context.Context, in *rpc.WineIDs) (*rpc.VintageIDs, error) {
	ids, err := g.service.GetVintageIDsByWineIDs(ctx, in.WineIDs)
	if err != nil {
		return nil, statusError(err)
	}
	return &rpc.VintageIDs{VintageIDs: ids}, nil
}

func (g *GRPCServer) GetWineIDByVintageID(ctx context.Context, in *rpc.VintageID) (*rpc.WineID, error) {
	wineID, err := g.service.GetWineIDByVintageID(ctx, in.VintageID)
	if err != nil {
		return nil, statusError(err)
	}
	return &rpc.WineID{WineID: wineID}, nil
}

func (g *GRPCServer) GetWineIDsByVintageIDs(ctx context.Context, in *rpc.VintageIDs) (*rpc.WineIDs, error) {
	wineIDs, err := g.service.GetWineIDsByVintageIDs(ctx, in.VintageIDs)
	if err != nil {
		return nil, statusError(err)
	}
	return &rpc.WineIDs{WineIDs: wineIDs}, nil
}

func (g *GRPCServer) GetUnorderedWineIDsByVintageIDs(ctx context.Context, in *rpc.VintageIDs) (*rpc.WineIDs, error) {
	wineIDs, err := g.service.GetUnorderedWineIDsByVintageIDs(ctx, in.VintageIDs)
	if err != nil {
		return nil, statusError(err)
	}
	return &rpc.WineIDs{WineIDs: wineIDs}, nil
}

func (g *GRPCServer) GetBestVintageIDByWineID(ctx context.Context, in *rpc.WineID) (*rpc.VintageID, error) {
	id, err := g.service.GetBestVintageIDByWineID(ctx, in.WineID)
	if err != nil {
		return nil, statusError(err)
	}
	return &rpc.VintageID{VintageID: id}, nil
}

func (g *GRPCServer) GetBestVintageIDsByWineIDs(ctx context.Context, in *rpc.WineIDs) (*rpc.VintageIDs, error) {
	ids, err := g.service.GetBestVintageIDsByWineIDs(ctx, in.WineIDs)
	if err != nil {
		return nil, statusError(err)
	}
	return &rpc.VintageIDs{VintageIDs: ids}, nil
}

func (g *GRPCServer) GetUnorderedBestVintageIDsByWineIDs(ctx context.Context, in *rpc.WineIDs) (*rpc.VintageIDs, error) {
	ids, err := g.service.GetUnorderedBestVintageIDsByWineIDs(ctx, in.WineIDs)
	if err != nil {
		return nil, statusError(err)
	}
	return &rpc.VintageIDs{VintageIDs: ids}, nil
}

func (g *GRPCServer) GetHighRatedVintageIDsFromWineID(ctx context.Context, in *rpc.WineID) (*rpc.VintageIDs, error) {
	ids, err := g.service.GetHighRatedVintageIDsFromWineID(ctx, in.WineID)
	if err != nil {
		return nil, statusError(err)
	}
	return &rpc.VintageIDs{VintageIDs: ids}, nil
}

func (g *GRPCServer) GetHighRatedVintageIDsFromWineIDs(ctx context.Context, in *rpc.WineIDs) (*rpc.VintageIDs, error) {
	ids, err := g.service.GetHighRatedVintageIDsFromWineIDs(ctx, in.WineIDs)
	if err != nil {
		return nil, statusError(err)
	}
	return &rpc.VintageIDs{VintageIDs: ids}, nil
}
