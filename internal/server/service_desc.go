package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "lawchanges.v1.LawChangesService"

// Method names, usable with grpc.ClientConn.Invoke as "/" + ServiceName + "/" + method.
const (
	MethodProcessDocument  = "ProcessDocument"
	MethodGetLawChanges    = "GetLawChanges"
	MethodGetStatistics    = "GetStatistics"
	MethodExportLawChanges = "ExportLawChanges"
)

// LawChangesServiceServer is the server API for lawchanges.v1.LawChangesService.
// Requests and responses are google.protobuf.Struct documents.
type LawChangesServiceServer interface {
	ProcessDocument(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLawChanges(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStatistics(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportLawChanges(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// FullMethod returns the wire path of a service method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type unaryCall func(LawChangesServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LawChangesServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LawChangesServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// LawChangesServiceDesc describes the service for grpc.Server.RegisterService.
// No .proto file backs it, so reflection lists the service but only the
// google.protobuf.Struct message types are describable.
var LawChangesServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LawChangesServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: MethodProcessDocument,
			Handler: unaryHandler(MethodProcessDocument, func(s LawChangesServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.ProcessDocument(ctx, in)
			}),
		},
		{
			MethodName: MethodGetLawChanges,
			Handler: unaryHandler(MethodGetLawChanges, func(s LawChangesServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.GetLawChanges(ctx, in)
			}),
		},
		{
			MethodName: MethodGetStatistics,
			Handler: unaryHandler(MethodGetStatistics, func(s LawChangesServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.GetStatistics(ctx, in)
			}),
		},
		{
			MethodName: MethodExportLawChanges,
			Handler: unaryHandler(MethodExportLawChanges, func(s LawChangesServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.ExportLawChanges(ctx, in)
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterLawChangesServiceServer registers srv on s.
func RegisterLawChangesServiceServer(s grpc.ServiceRegistrar, srv LawChangesServiceServer) {
	s.RegisterService(&LawChangesServiceDesc, srv)
}
