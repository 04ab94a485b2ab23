package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "caching.Caching"

// Method names, as exposed on the wire.
const (
	MethodGetVintageByID                      = "get_vintage_by_id"
	MethodGetVintagesByIDs                    = "get_vintages_by_ids"
	MethodGetVintageTitleByID                 = "get_vintage_title_by_id"
	MethodGetVintageTitlesByIDs               = "get_vintage_titles_by_ids"
	MethodGetPriceByVintageID                 = "get_price_by_vintage_id"
	MethodGetPricesByVintageIDs               = "get_prices_by_vintage_ids"
	MethodGetVintageIDsByWineID               = "get_vintage_ids_by_wine_id"
	MethodGetVintageIDsByWineIDs              = "get_vintage_ids_by_wine_ids"
	MethodGetWineIDByVintageID                = "get_wine_id_by_vintage_id"
	MethodGetWineIDsByVintageIDs              = "get_wine_ids_by_vintage_ids"
	MethodGetUnorderedWineIDsByVintageIDs     = "get_unordered_wine_ids_by_vintage_ids"
	MethodGetBestVintageIDByWineID            = "get_best_vintage_id_by_wine_id"
	MethodGetBestVintageIDsByWineIDs          = "get_best_vintage_ids_by_wine_ids"
	MethodGetUnorderedBestVintageIDsByWineIDs = "get_unordered_best_vintage_ids_by_wine_ids"
	MethodGetHighRatedVintageIDsFromWineID    = "get_high_rated_vintage_ids_from_wine_id"
	MethodGetHighRatedVintageIDsFromWineIDs   = "get_high_rated_vintage_ids_from_wine_ids"
	MethodStreamVintagesByIDs                 = "stream_vintages_by_ids"
)

// FullMethod returns the path of method on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// VintageStream is the server side of stream_vintages_by_ids.
type VintageStream = grpc.ServerStreamingServer[VintageResponse]

// CachingServer is the server API of the caching service.
type CachingServer interface {
	GetVintageByID(context.Context, *VintageID) (*VintageResponse, error)
	GetVintagesByIDs(context.Context, *VintageIDs) (*VintagesResponse, error)
	GetVintageTitleByID(context.Context, *VintageID) (*TitleResponse, error)
	GetVintageTitlesByIDs(context.Context, *VintageIDs) (*TitlesResponse, error)
	GetPriceByVintageID(context.Context, *VintageID) (*PriceResponse, error)
	GetPricesByVintageIDs(context.Context, *VintageIDs) (*PricesResponse, error)
	GetVintageIDsByWineID(context.Context, *WineID) (*VintageIDs, error)
	GetVintageIDsByWineIDs(context.Context, *WineIDs) (*VintageIDs, error)
	GetWineIDByVintageID(context.Context, *VintageID) (*WineID, error)
	GetWineIDsByVintageIDs(context.Context, *VintageIDs) (*WineIDs, error)
	GetUnorderedWineIDsByVintageIDs(context.Context, *VintageIDs) (*WineIDs, error)
	GetBestVintageIDByWineID(context.Context, *WineID) (*VintageID, error)
	GetBestVintageIDsByWineIDs(context.Context, *WineIDs) (*VintageIDs, error)
	GetUnorderedBestVintageIDsByWineIDs(context.Context, *WineIDs) (*VintageIDs, error)
	GetHighRatedVintageIDsFromWineID(context.Context, *WineID) (*VintageIDs, error)
	GetHighRatedVintageIDsFromWineIDs(context.Context, *WineIDs) (*VintageIDs, error)
	StreamVintagesByIDs(*VintageIDs, VintageStream) error
}

// UnimplementedCachingServer answers every method with codes.Unimplemented. Embed it to
// implement a subset of the service.
type UnimplementedCachingServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedCachingServer) GetVintageByID(context.Context, *VintageID) (*VintageResponse, error) {
	return nil, unimplemented(MethodGetVintageByID)
}
func (UnimplementedCachingServer) GetVintagesByIDs(context.Context, *VintageIDs) (*VintagesResponse, error) {
	return nil, unimplemented(MethodGetVintagesByIDs)
}
func (UnimplementedCachingServer) GetVintageTitleByID(context.Context, *VintageID) (*TitleResponse, error) {
	return nil, unimplemented(MethodGetVintageTitleByID)
}
func (UnimplementedCachingServer) GetVintageTitlesByIDs(context.Context, *VintageIDs) (*TitlesResponse, error) {
	return nil, unimplemented(MethodGetVintageTitlesByIDs)
}
func (UnimplementedCachingServer) GetPriceByVintageID(context.Context, *VintageID) (*PriceResponse, error) {
	return nil, unimplemented(MethodGetPriceByVintageID)
}
func (UnimplementedCachingServer) GetPricesByVintageIDs(context.Context, *VintageIDs) (*PricesResponse, error) {
	return nil, unimplemented(MethodGetPricesByVintageIDs)
}
func (UnimplementedCachingServer) GetVintageIDsByWineID(context.Context, *WineID) (*VintageIDs, error) {
	return nil, unimplemented(MethodGetVintageIDsByWineID)
}
func (UnimplementedCachingServer) GetVintageIDsByWineIDs(context.Context, *WineIDs) (*VintageIDs, error) {
	return nil, unimplemented(MethodGetVintageIDsByWineIDs)
}
func (UnimplementedCachingServer) GetWineIDByVintageID(context.Context, *VintageID) (*WineID, error) {
	return nil, unimplemented(MethodGetWineIDByVintageID)
}
func (UnimplementedCachingServer) GetWineIDsByVintageIDs(context.Context, *VintageIDs) (*WineIDs, error) {
	return nil, unimplemented(MethodGetWineIDsByVintageIDs)
}
func (UnimplementedCachingServer) GetUnorderedWineIDsByVintageIDs(context.Context, *VintageIDs) (*WineIDs, error) {
	return nil, unimplemented(MethodGetUnorderedWineIDsByVintageIDs)
}
func (UnimplementedCachingServer) GetBestVintageIDByWineID(context.Context, *WineID) (*VintageID, error) {
	return nil, unimplemented(MethodGetBestVintageIDByWineID)
}
func (UnimplementedCachingServer) GetBestVintageIDsByWineIDs(context.Context, *WineIDs) (*VintageIDs, error) {
	return nil, unimplemented(MethodGetBestVintageIDsByWineIDs)
}
func (UnimplementedCachingServer) GetUnorderedBestVintageIDsByWineIDs(context.Context, *WineIDs) (*VintageIDs, error) {
	return nil, unimplemented(MethodGetUnorderedBestVintageIDsByWineIDs)
}
func (UnimplementedCachingServer) GetHighRatedVintageIDsFromWineID(context.Context, *WineID) (*VintageIDs, error) {
	return nil, unimplemented(MethodGetHighRatedVintageIDsFromWineID)
}
func (UnimplementedCachingServer) GetHighRatedVintageIDsFromWineIDs(context.Context, *WineIDs) (*VintageIDs, error) {
	return nil, unimplemented(MethodGetHighRatedVintageIDsFromWineIDs)
}
func (UnimplementedCachingServer) StreamVintagesByIDs(*VintageIDs, VintageStream) error {
	return unimplemented(MethodStreamVintagesByIDs)
}

// RegisterCachingServer registers srv on s.
func RegisterCachingServer(s grpc.ServiceRegistrar, srv CachingServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unary builds the descriptor of a unary method from its CachingServer method expression.
func unary[Req, Resp any](name string, call func(CachingServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CachingServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CachingServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func streamVintagesByIDsHandler(srv any, stream grpc.ServerStream) error {
	in := new(VintageIDs)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(CachingServer).StreamVintagesByIDs(in, &grpc.GenericServerStream[VintageIDs, VintageResponse]{ServerStream: stream})
}

// ServiceDesc describes the caching service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CachingServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodGetVintageByID, CachingServer.GetVintageByID),
		unary(MethodGetVintagesByIDs, CachingServer.GetVintagesByIDs),
		unary(MethodGetVintageTitleByID, CachingServer.GetVintageTitleByID),
		unary(MethodGetVintageTitlesByIDs, CachingServer.GetVintageTitlesByIDs),
		unary(MethodGetPriceByVintageID, CachingServer.GetPriceByVintageID),
		unary(MethodGetPricesByVintageIDs, CachingServer.GetPricesByVintageIDs),
		unary(MethodGetVintageIDsByWineID, CachingServer.GetVintageIDsByWineID),
		unary(MethodGetVintageIDsByWineIDs, CachingServer.GetVintageIDsByWineIDs),
		unary(MethodGetWineIDByVintageID, CachingServer.GetWineIDByVintageID),
		unary(MethodGetWineIDsByVintageIDs, CachingServer.GetWineIDsByVintageIDs),
		unary(MethodGetUnorderedWineIDsByVintageIDs, CachingServer.GetUnorderedWineIDsByVintageIDs),
		unary(MethodGetBestVintageIDByWineID, CachingServer.GetBestVintageIDByWineID),
		unary(MethodGetBestVintageIDsByWineIDs, CachingServer.GetBestVintageIDsByWineIDs),
		unary(MethodGetUnorderedBestVintageIDsByWineIDs, CachingServer.GetUnorderedBestVintageIDsByWineIDs),
		unary(MethodGetHighRatedVintageIDsFromWineID, CachingServer.GetHighRatedVintageIDsFromWineID),
		unary(MethodGetHighRatedVintageIDsFromWineIDs, CachingServer.GetHighRatedVintageIDsFromWineIDs),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    MethodStreamVintagesByIDs,
			Handler:       streamVintagesByIDsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "caching.proto",
}
