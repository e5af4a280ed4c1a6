package ideas

import (
	"context"

	"google.golang.org/grpc"

	"github.com/gheider394-beep/2-sub000/internal/app"
)

// IdeasServer is the server API for the Ideas service.
type IdeasServer interface {
	Join(ctx context.Context, req *JoinIdeaRequest) (*JoinIdeaResponse, error)
	Leave(ctx context.Context, req *LeaveIdeaRequest) (*LeaveIdeaResponse, error)
	IsParticipant(ctx context.Context, req *IsParticipantRequest) (*IsParticipantResponse, error)
	ListParticipants(ctx context.Context, req *ListParticipantsRequest) (*ListParticipantsResponse, error)
	CountParticipants(ctx context.Context, req *CountParticipantsRequest) (*CountParticipantsResponse, error)
}

// RegisterIdeasServer attaches srv to the gRPC server. The service
// descriptor is hand-written; requests travel over the server's JSON codec.
func RegisterIdeasServer(s *grpc.Server, srv IdeasServer) {
	s.RegisterService(&serviceDesc, srv)
}

func joinHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(JoinIdeaRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdeasServer).Join(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ideahub.Ideas/Join"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IdeasServer).Join(ctx, req.(*JoinIdeaRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func leaveHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(LeaveIdeaRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdeasServer).Leave(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ideahub.Ideas/Leave"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IdeasServer).Leave(ctx, req.(*LeaveIdeaRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func isParticipantHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(IsParticipantRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdeasServer).IsParticipant(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ideahub.Ideas/IsParticipant"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IdeasServer).IsParticipant(ctx, req.(*IsParticipantRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func listParticipantsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListParticipantsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdeasServer).ListParticipants(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ideahub.Ideas/ListParticipants"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IdeasServer).ListParticipants(ctx, req.(*ListParticipantsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func countParticipantsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CountParticipantsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdeasServer).CountParticipants(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ideahub.Ideas/CountParticipants"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IdeasServer).CountParticipants(ctx, req.(*CountParticipantsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: "ideahub.Ideas",
	HandlerType: (*IdeasServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Join", Handler: joinHandler},
		{MethodName: "Leave", Handler: leaveHandler},
		{MethodName: "IsParticipant", Handler: isParticipantHandler},
		{MethodName: "ListParticipants", Handler: listParticipantsHandler},
		{MethodName: "CountParticipants", Handler: countParticipantsHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// Registrar ties the Ideas service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Ideas service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Ideas service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	RegisterIdeasServer(s, NewService(r.appCtx))
}
