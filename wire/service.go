package wire

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Full method names. Every operation payload declares which of these executes
// it; the dispatcher invokes the method on the selected node's channel.
const (
	MethodTransfer       = "/hashnet.ledger.v1.TransactionService/Transfer"
	MethodPauseToken     = "/hashnet.ledger.v1.TransactionService/PauseToken"
	MethodUpdateContract = "/hashnet.ledger.v1.TransactionService/UpdateContract"
	MethodSubmitMessage  = "/hashnet.ledger.v1.TransactionService/SubmitMessage"

	MethodGetAccountBalance = "/hashnet.ledger.v1.QueryService/GetAccountBalance"
)

// TransactionServiceServer is the server API for the transaction service.
//
// Every request carries marshaled SignedTransaction bytes and every reply
// carries marshaled Envelope bytes. We intentionally use protobuf well-known
// wrapper types so this package does not require a protoc/codegen toolchain.
type TransactionServiceServer interface {
	Transfer(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	PauseToken(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	UpdateContract(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	SubmitMessage(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedTransactionServiceServer can be embedded to have forward
// compatible implementations.
type UnimplementedTransactionServiceServer struct{}

func (UnimplementedTransactionServiceServer) Transfer(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Transfer not implemented")
}
func (UnimplementedTransactionServiceServer) PauseToken(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method PauseToken not implemented")
}
func (UnimplementedTransactionServiceServer) UpdateContract(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateContract not implemented")
}
func (UnimplementedTransactionServiceServer) SubmitMessage(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitMessage not implemented")
}

// RegisterTransactionServiceServer registers the transaction service on a
// gRPC server.
func RegisterTransactionServiceServer(s grpc.ServiceRegistrar, srv TransactionServiceServer) {
	s.RegisterService(&TransactionService_ServiceDesc, srv)
}

// QueryServiceServer is the server API for the query service. Requests carry
// marshaled QueryBody bytes; replies carry marshaled Envelope bytes.
type QueryServiceServer interface {
	GetAccountBalance(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedQueryServiceServer can be embedded to have forward compatible
// implementations.
type UnimplementedQueryServiceServer struct{}

func (UnimplementedQueryServiceServer) GetAccountBalance(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAccountBalance not implemented")
}

// RegisterQueryServiceServer registers the query service on a gRPC server.
func RegisterQueryServiceServer(s grpc.ServiceRegistrar, srv QueryServiceServer) {
	s.RegisterService(&QueryService_ServiceDesc, srv)
}

type txHandlerFunc func(TransactionServiceServer, context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)

func txHandler(method string, fn txHandlerFunc) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(wrapperspb.BytesValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return fn(srv.(TransactionServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return fn(srv.(TransactionServiceServer), ctx, req.(*wrapperspb.BytesValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func _QueryService_GetAccountBalance_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServiceServer).GetAccountBalance(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetAccountBalance}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QueryServiceServer).GetAccountBalance(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// TransactionService_ServiceDesc is the grpc.ServiceDesc for the transaction
// service.
var TransactionService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "hashnet.ledger.v1.TransactionService",
	HandlerType: (*TransactionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Transfer", Handler: txHandler(MethodTransfer, TransactionServiceServer.Transfer)},
		{MethodName: "PauseToken", Handler: txHandler(MethodPauseToken, TransactionServiceServer.PauseToken)},
		{MethodName: "UpdateContract", Handler: txHandler(MethodUpdateContract, TransactionServiceServer.UpdateContract)},
		{MethodName: "SubmitMessage", Handler: txHandler(MethodSubmitMessage, TransactionServiceServer.SubmitMessage)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ledger.proto",
}

// QueryService_ServiceDesc is the grpc.ServiceDesc for the query service.
var QueryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "hashnet.ledger.v1.QueryService",
	HandlerType: (*QueryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetAccountBalance", Handler: _QueryService_GetAccountBalance_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ledger.proto",
}
