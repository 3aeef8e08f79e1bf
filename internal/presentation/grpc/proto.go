package grpc

// proto.go defines the gRPC server interface for guildbank.lending.v1.LoanService.
// This file serves as a stand-in for buf-generated code; messages travel over
// the registered JSON codec. Once `buf generate` is run, replace this file
// with the import from the generated package.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/guildbank/lending/internal/application/dto"
)

// Message types mirror the application DTOs one-for-one.
type (
	ExtendOfferRequest      = dto.ExtendOfferRequest
	RevokeOfferRequest      = dto.RevokeOfferRequest
	GetOfferRequest         = dto.GetOfferRequest
	AcceptOfferRequest      = dto.AcceptOfferRequest
	MakePaymentRequest      = dto.MakePaymentRequest
	UpdateLoanRequest       = dto.UpdateLoanRequest
	ConfigureAutoPayRequest = dto.ConfigureAutoPayRequest
	GetLoanRequest          = dto.GetLoanRequest
	GetStatementRequest     = dto.GetStatementRequest
	GetCreditScoreRequest   = dto.GetCreditScoreRequest
	RecordBankruptcyRequest = dto.RecordBankruptcyRequest
	SellLoanRequest         = dto.SellLoanRequest

	OfferResponse       = dto.OfferResponse
	LoanResponse        = dto.LoanResponse
	PaymentResponse     = dto.PaymentResponse
	StatementResponse   = dto.StatementResponse
	CreditScoreResponse = dto.CreditScoreResponse
)

// LoanServiceServer is the server API for LoanService.
type LoanServiceServer interface {
	ExtendOffer(context.Context, *ExtendOfferRequest) (*OfferResponse, error)
	RevokeOffer(context.Context, *RevokeOfferRequest) (*OfferResponse, error)
	GetOffer(context.Context, *GetOfferRequest) (*OfferResponse, error)
	AcceptOffer(context.Context, *AcceptOfferRequest) (*LoanResponse, error)
	MakePayment(context.Context, *MakePaymentRequest) (*PaymentResponse, error)
	UpdateLoan(context.Context, *UpdateLoanRequest) (*LoanResponse, error)
	ConfigureAutoPay(context.Context, *ConfigureAutoPayRequest) (*LoanResponse, error)
	GetLoan(context.Context, *GetLoanRequest) (*LoanResponse, error)
	GetStatement(context.Context, *GetStatementRequest) (*StatementResponse, error)
	GetCreditScore(context.Context, *GetCreditScoreRequest) (*CreditScoreResponse, error)
	RecordBankruptcy(context.Context, *RecordBankruptcyRequest) (*CreditScoreResponse, error)
	SellLoan(context.Context, *SellLoanRequest) (*LoanResponse, error)
	mustEmbedUnimplementedLoanServiceServer()
}

// UnimplementedLoanServiceServer provides forward-compatible default implementations.
type UnimplementedLoanServiceServer struct{}

func (UnimplementedLoanServiceServer) ExtendOffer(context.Context, *ExtendOfferRequest) (*OfferResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ExtendOffer not implemented")
}
func (UnimplementedLoanServiceServer) RevokeOffer(context.Context, *RevokeOfferRequest) (*OfferResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RevokeOffer not implemented")
}
func (UnimplementedLoanServiceServer) GetOffer(context.Context, *GetOfferRequest) (*OfferResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetOffer not implemented")
}
func (UnimplementedLoanServiceServer) AcceptOffer(context.Context, *AcceptOfferRequest) (*LoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AcceptOffer not implemented")
}
func (UnimplementedLoanServiceServer) MakePayment(context.Context, *MakePaymentRequest) (*PaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method MakePayment not implemented")
}
func (UnimplementedLoanServiceServer) UpdateLoan(context.Context, *UpdateLoanRequest) (*LoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdateLoan not implemented")
}
func (UnimplementedLoanServiceServer) ConfigureAutoPay(context.Context, *ConfigureAutoPayRequest) (*LoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ConfigureAutoPay not implemented")
}
func (UnimplementedLoanServiceServer) GetLoan(context.Context, *GetLoanRequest) (*LoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoan not implemented")
}
func (UnimplementedLoanServiceServer) GetStatement(context.Context, *GetStatementRequest) (*StatementResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetStatement not implemented")
}
func (UnimplementedLoanServiceServer) GetCreditScore(context.Context, *GetCreditScoreRequest) (*CreditScoreResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetCreditScore not implemented")
}
func (UnimplementedLoanServiceServer) RecordBankruptcy(context.Context, *RecordBankruptcyRequest) (*CreditScoreResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecordBankruptcy not implemented")
}
func (UnimplementedLoanServiceServer) SellLoan(context.Context, *SellLoanRequest) (*LoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SellLoan not implemented")
}
func (UnimplementedLoanServiceServer) mustEmbedUnimplementedLoanServiceServer() {}

// RegisterLoanServiceServer registers the LoanServiceServer with the gRPC server.
func RegisterLoanServiceServer(s *grpclib.Server, srv LoanServiceServer) {
	s.RegisterService(&_LoanService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _LoanService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "guildbank.lending.v1.LoanService",
	HandlerType: (*LoanServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ExtendOffer", Handler: _LoanService_ExtendOffer_Handler},           //nolint:revive // gRPC handler registration
		{MethodName: "RevokeOffer", Handler: _LoanService_RevokeOffer_Handler},           //nolint:revive // gRPC handler registration
		{MethodName: "GetOffer", Handler: _LoanService_GetOffer_Handler},                 //nolint:revive // gRPC handler registration
		{MethodName: "AcceptOffer", Handler: _LoanService_AcceptOffer_Handler},           //nolint:revive // gRPC handler registration
		{MethodName: "MakePayment", Handler: _LoanService_MakePayment_Handler},           //nolint:revive // gRPC handler registration
		{MethodName: "UpdateLoan", Handler: _LoanService_UpdateLoan_Handler},             //nolint:revive // gRPC handler registration
		{MethodName: "ConfigureAutoPay", Handler: _LoanService_ConfigureAutoPay_Handler}, //nolint:revive // gRPC handler registration
		{MethodName: "GetLoan", Handler: _LoanService_GetLoan_Handler},                   //nolint:revive // gRPC handler registration
		{MethodName: "GetStatement", Handler: _LoanService_GetStatement_Handler},         //nolint:revive // gRPC handler registration
		{MethodName: "GetCreditScore", Handler: _LoanService_GetCreditScore_Handler},     //nolint:revive // gRPC handler registration
		{MethodName: "RecordBankruptcy", Handler: _LoanService_RecordBankruptcy_Handler}, //nolint:revive // gRPC handler registration
		{MethodName: "SellLoan", Handler: _LoanService_SellLoan_Handler},                 //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_ExtendOffer_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ExtendOfferRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).ExtendOffer(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/guildbank.lending.v1.LoanService/ExtendOffer",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).ExtendOffer(ctx, req.(*ExtendOfferRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_RevokeOffer_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(RevokeOfferRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).RevokeOffer(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/guildbank.lending.v1.LoanService/RevokeOffer",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).RevokeOffer(ctx, req.(*RevokeOfferRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_GetOffer_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetOfferRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).GetOffer(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/guildbank.lending.v1.LoanService/GetOffer",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).GetOffer(ctx, req.(*GetOfferRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_AcceptOffer_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(AcceptOfferRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).AcceptOffer(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/guildbank.lending.v1.LoanService/AcceptOffer",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).AcceptOffer(ctx, req.(*AcceptOfferRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_MakePayment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(MakePaymentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).MakePayment(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/guildbank.lending.v1.LoanService/MakePayment",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).MakePayment(ctx, req.(*MakePaymentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_UpdateLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(UpdateLoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).UpdateLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/guildbank.lending.v1.LoanService/UpdateLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).UpdateLoan(ctx, req.(*UpdateLoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_ConfigureAutoPay_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ConfigureAutoPayRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).ConfigureAutoPay(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/guildbank.lending.v1.LoanService/ConfigureAutoPay",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).ConfigureAutoPay(ctx, req.(*ConfigureAutoPayRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_GetLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetLoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).GetLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/guildbank.lending.v1.LoanService/GetLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).GetLoan(ctx, req.(*GetLoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_GetStatement_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetStatementRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).GetStatement(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/guildbank.lending.v1.LoanService/GetStatement",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).GetStatement(ctx, req.(*GetStatementRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_GetCreditScore_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetCreditScoreRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).GetCreditScore(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/guildbank.lending.v1.LoanService/GetCreditScore",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).GetCreditScore(ctx, req.(*GetCreditScoreRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_RecordBankruptcy_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(RecordBankruptcyRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).RecordBankruptcy(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/guildbank.lending.v1.LoanService/RecordBankruptcy",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).RecordBankruptcy(ctx, req.(*RecordBankruptcyRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanService_SellLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(SellLoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServiceServer).SellLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/guildbank.lending.v1.LoanService/SellLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServiceServer).SellLoan(ctx, req.(*SellLoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}
