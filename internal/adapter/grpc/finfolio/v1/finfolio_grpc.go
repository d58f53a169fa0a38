package finfoliov1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "finfolio.v1.PortfolioService"

const (
	PortfolioService_AddHolding_FullMethodName          = "/finfolio.v1.PortfolioService/AddHolding"
	PortfolioService_RecordSell_FullMethodName          = "/finfolio.v1.PortfolioService/RecordSell"
	PortfolioService_RemoveHolding_FullMethodName       = "/finfolio.v1.PortfolioService/RemoveHolding"
	PortfolioService_AddToWatchlist_FullMethodName      = "/finfolio.v1.PortfolioService/AddToWatchlist"
	PortfolioService_RemoveFromWatchlist_FullMethodName = "/finfolio.v1.PortfolioService/RemoveFromWatchlist"
	PortfolioService_SearchStocks_FullMethodName        = "/finfolio.v1.PortfolioService/SearchStocks"
	PortfolioService_GetPortfolio_FullMethodName        = "/finfolio.v1.PortfolioService/GetPortfolio"
	PortfolioService_RefreshData_FullMethodName         = "/finfolio.v1.PortfolioService/RefreshData"
)

// PortfolioServiceServer is the server API for PortfolioService
type PortfolioServiceServer interface {
	AddHolding(context.Context, *AddHoldingRequest) (*AddHoldingResponse, error)
	RecordSell(context.Context, *RecordSellRequest) (*RecordSellResponse, error)
	RemoveHolding(context.Context, *RemoveHoldingRequest) (*emptypb.Empty, error)
	AddToWatchlist(context.Context, *AddToWatchlistRequest) (*AddToWatchlistResponse, error)
	RemoveFromWatchlist(context.Context, *RemoveFromWatchlistRequest) (*emptypb.Empty, error)
	SearchStocks(context.Context, *SearchStocksRequest) (*SearchStocksResponse, error)
	GetPortfolio(context.Context, *GetPortfolioRequest) (*GetPortfolioResponse, error)
	RefreshData(context.Context, *RefreshDataRequest) (*GetPortfolioResponse, error)
	mustEmbedUnimplementedPortfolioServiceServer()
}

// UnimplementedPortfolioServiceServer must be embedded for forward compatibility
type UnimplementedPortfolioServiceServer struct{}

func (UnimplementedPortfolioServiceServer) AddHolding(context.Context, *AddHoldingRequest) (*AddHoldingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddHolding not implemented")
}
func (UnimplementedPortfolioServiceServer) RecordSell(context.Context, *RecordSellRequest) (*RecordSellResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RecordSell not implemented")
}
func (UnimplementedPortfolioServiceServer) RemoveHolding(context.Context, *RemoveHoldingRequest) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveHolding not implemented")
}
func (UnimplementedPortfolioServiceServer) AddToWatchlist(context.Context, *AddToWatchlistRequest) (*AddToWatchlistResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddToWatchlist not implemented")
}
func (UnimplementedPortfolioServiceServer) RemoveFromWatchlist(context.Context, *RemoveFromWatchlistRequest) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveFromWatchlist not implemented")
}
func (UnimplementedPortfolioServiceServer) SearchStocks(context.Context, *SearchStocksRequest) (*SearchStocksResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SearchStocks not implemented")
}
func (UnimplementedPortfolioServiceServer) GetPortfolio(context.Context, *GetPortfolioRequest) (*GetPortfolioResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPortfolio not implemented")
}
func (UnimplementedPortfolioServiceServer) RefreshData(context.Context, *RefreshDataRequest) (*GetPortfolioResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshData not implemented")
}
func (UnimplementedPortfolioServiceServer) mustEmbedUnimplementedPortfolioServiceServer() {}

// RegisterPortfolioServiceServer registers srv on s
func RegisterPortfolioServiceServer(s grpc.ServiceRegistrar, srv PortfolioServiceServer) {
	s.RegisterService(&PortfolioService_ServiceDesc, srv)
}

// unary adapts a typed method into a grpc.MethodHandler that honours interceptors
func unary[Req, Resp any](fullMethod string, call func(PortfolioServiceServer, context.Context, *Req) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PortfolioServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PortfolioServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// PortfolioService_ServiceDesc is the grpc.ServiceDesc for PortfolioService
var PortfolioService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortfolioServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AddHolding", Handler: unary(PortfolioService_AddHolding_FullMethodName, PortfolioServiceServer.AddHolding)},
		{MethodName: "RecordSell", Handler: unary(PortfolioService_RecordSell_FullMethodName, PortfolioServiceServer.RecordSell)},
		{MethodName: "RemoveHolding", Handler: unary(PortfolioService_RemoveHolding_FullMethodName, PortfolioServiceServer.RemoveHolding)},
		{MethodName: "AddToWatchlist", Handler: unary(PortfolioService_AddToWatchlist_FullMethodName, PortfolioServiceServer.AddToWatchlist)},
		{MethodName: "RemoveFromWatchlist", Handler: unary(PortfolioService_RemoveFromWatchlist_FullMethodName, PortfolioServiceServer.RemoveFromWatchlist)},
		{MethodName: "SearchStocks", Handler: unary(PortfolioService_SearchStocks_FullMethodName, PortfolioServiceServer.SearchStocks)},
		{MethodName: "GetPortfolio", Handler: unary(PortfolioService_GetPortfolio_FullMethodName, PortfolioServiceServer.GetPortfolio)},
		{MethodName: "RefreshData", Handler: unary(PortfolioService_RefreshData_FullMethodName, PortfolioServiceServer.RefreshData)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "finfolio/v1/finfolio.proto",
}

// PortfolioServiceClient is the client API for PortfolioService
type PortfolioServiceClient interface {
	AddHolding(ctx context.Context, in *AddHoldingRequest, opts ...grpc.CallOption) (*AddHoldingResponse, error)
	RecordSell(ctx context.Context, in *RecordSellRequest, opts ...grpc.CallOption) (*RecordSellResponse, error)
	RemoveHolding(ctx context.Context, in *RemoveHoldingRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	AddToWatchlist(ctx context.Context, in *AddToWatchlistRequest, opts ...grpc.CallOption) (*AddToWatchlistResponse, error)
	RemoveFromWatchlist(ctx context.Context, in *RemoveFromWatchlistRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	SearchStocks(ctx context.Context, in *SearchStocksRequest, opts ...grpc.CallOption) (*SearchStocksResponse, error)
	GetPortfolio(ctx context.Context, in *GetPortfolioRequest, opts ...grpc.CallOption) (*GetPortfolioResponse, error)
	RefreshData(ctx context.Context, in *RefreshDataRequest, opts ...grpc.CallOption) (*GetPortfolioResponse, error)
}

type portfolioServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPortfolioServiceClient returns a client that always speaks the JSON codec
func NewPortfolioServiceClient(cc grpc.ClientConnInterface) PortfolioServiceClient {
	return &portfolioServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *portfolioServiceClient) AddHolding(ctx context.Context, in *AddHoldingRequest, opts ...grpc.CallOption) (*AddHoldingResponse, error) {
	return invoke[AddHoldingResponse](ctx, c.cc, PortfolioService_AddHolding_FullMethodName, in, opts)
}

func (c *portfolioServiceClient) RecordSell(ctx context.Context, in *RecordSellRequest, opts ...grpc.CallOption) (*RecordSellResponse, error) {
	return invoke[RecordSellResponse](ctx, c.cc, PortfolioService_RecordSell_FullMethodName, in, opts)
}

func (c *portfolioServiceClient) RemoveHolding(ctx context.Context, in *RemoveHoldingRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, PortfolioService_RemoveHolding_FullMethodName, in, opts)
}

func (c *portfolioServiceClient) AddToWatchlist(ctx context.Context, in *AddToWatchlistRequest, opts ...grpc.CallOption) (*AddToWatchlistResponse, error) {
	return invoke[AddToWatchlistResponse](ctx, c.cc, PortfolioService_AddToWatchlist_FullMethodName, in, opts)
}

func (c *portfolioServiceClient) RemoveFromWatchlist(ctx context.Context, in *RemoveFromWatchlistRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, PortfolioService_RemoveFromWatchlist_FullMethodName, in, opts)
}

func (c *portfolioServiceClient) SearchStocks(ctx context.Context, in *SearchStocksRequest, opts ...grpc.CallOption) (*SearchStocksResponse, error) {
	return invoke[SearchStocksResponse](ctx, c.cc, PortfolioService_SearchStocks_FullMethodName, in, opts)
}

func (c *portfolioServiceClient) GetPortfolio(ctx context.Context, in *GetPortfolioRequest, opts ...grpc.CallOption) (*GetPortfolioResponse, error) {
	return invoke[GetPortfolioResponse](ctx, c.cc, PortfolioService_GetPortfolio_FullMethodName, in, opts)
}

func (c *portfolioServiceClient) RefreshData(ctx context.Context, in *RefreshDataRequest, opts ...grpc.CallOption) (*GetPortfolioResponse, error) {
	return invoke[GetPortfolioResponse](ctx, c.cc, PortfolioService_RefreshData_FullMethodName, in, opts)
}
