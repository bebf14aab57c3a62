package grpc

// proto.go defines the gRPC server interface for txrisk/v1/risk.proto by hand.
// Messages travel as JSON through the codec registered below; clients select
// it with grpc.CallContentSubtype("json").

import (
	"context"
	"encoding/json"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"
)

const (
	// RiskServiceName is the fully qualified gRPC service name.
	RiskServiceName = "txrisk.v1.RiskService"

	// ScoreTransactionMethod is the full method name used by interceptors.
	ScoreTransactionMethod = "/" + RiskServiceName + "/ScoreTransaction"
)

// JSONCodecName is the content subtype of the JSON codec.
const JSONCodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return JSONCodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// RiskServiceServer is the server API for RiskService.
type RiskServiceServer interface {
	ScoreTransaction(context.Context, *ScoreTransactionRequest) (*ScoreTransactionResponse, error)
	mustEmbedUnimplementedRiskServiceServer()
}

// UnimplementedRiskServiceServer provides forward-compatible default implementations.
type UnimplementedRiskServiceServer struct{}

func (UnimplementedRiskServiceServer) ScoreTransaction(context.Context, *ScoreTransactionRequest) (*ScoreTransactionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScoreTransaction not implemented")
}
func (UnimplementedRiskServiceServer) mustEmbedUnimplementedRiskServiceServer() {}

// RegisterRiskServiceServer registers the RiskServiceServer with the gRPC server.
func RegisterRiskServiceServer(s *grpclib.Server, srv RiskServiceServer) {
	s.RegisterService(&_RiskService_serviceDesc, srv)
}

var _RiskService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: RiskServiceName,
	HandlerType: (*RiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ScoreTransaction", Handler: _RiskService_ScoreTransaction_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "txrisk/v1/risk.proto",
}

func _RiskService_ScoreTransaction_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ScoreTransactionRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).ScoreTransaction(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: ScoreTransactionMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RiskServiceServer).ScoreTransaction(ctx, req.(*ScoreTransactionRequest))
	}
	return interceptor(ctx, req, info, handler)
}
