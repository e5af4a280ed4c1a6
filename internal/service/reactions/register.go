package reactions

import (
	"context"

	"google.golang.org/grpc"

	"github.com/gheider394-beep/2-sub000/internal/app"
)

// ReactionsServer is the server API for the Reactions service.
type ReactionsServer interface {
	Toggle(ctx context.Context, req *ToggleReactionRequest) (*ToggleReactionResponse, error)
	Count(ctx context.Context, req *CountReactionsRequest) (*CountReactionsResponse, error)
}

// RegisterReactionsServer attaches srv to the gRPC server. The service
// descriptor is hand-written; requests travel over the server's JSON codec.
func RegisterReactionsServer(s *grpc.Server, srv ReactionsServer) {
	s.RegisterService(&serviceDesc, srv)
}

func toggleHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ToggleReactionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReactionsServer).Toggle(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ideahub.Reactions/Toggle"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReactionsServer).Toggle(ctx, req.(*ToggleReactionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func countHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CountReactionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReactionsServer).Count(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ideahub.Reactions/Count"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReactionsServer).Count(ctx, req.(*CountReactionsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: "ideahub.Reactions",
	HandlerType: (*ReactionsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Toggle", Handler: toggleHandler},
		{MethodName: "Count", Handler: countHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// Registrar ties the Reactions service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Reactions service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Reactions service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	RegisterReactionsServer(s, NewService(r.appCtx))
}
