package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	BookingServiceName      = "farmrent.booking.v1.BookingService"
	NotificationServiceName = "farmrent.booking.v1.NotificationService"
)

// unaryMethod builds a MethodDesc that decodes *Req and dispatches to call
// through the server's interceptor chain.
func unaryMethod[S, Req, Resp any](service, name string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

type BookingServiceServer interface {
	CreateRentalRequest(context.Context, *CreateRentalRequestRequest) (*RentalRequestResponse, error)
	ApproveRentalRequest(context.Context, *RentalRequestIDRequest) (*RentalRequestResponse, error)
	RejectRentalRequest(context.Context, *RentalRequestReasonRequest) (*RentalRequestResponse, error)
	CancelRentalRequest(context.Context, *RentalRequestReasonRequest) (*RentalRequestResponse, error)
	MarkPickedUp(context.Context, *HandoverRequest) (*RentalRequestResponse, error)
	MarkReturned(context.Context, *HandoverRequest) (*RentalRequestResponse, error)
	CompleteRental(context.Context, *RentalRequestIDRequest) (*RentalRequestResponse, error)
	ReissueHandoverToken(context.Context, *ReissueHandoverTokenRequest) (*ReissueHandoverTokenResponse, error)
	GetRentalRequest(context.Context, *RentalRequestIDRequest) (*RentalRequestResponse, error)
	ListEquipmentRequests(context.Context, *EquipmentRequest) (*ListEquipmentRequestsResponse, error)
	GetAvailability(context.Context, *EquipmentRequest) (*GetAvailabilityResponse, error)
	QuotePrice(context.Context, *QuotePriceRequest) (*QuotePriceResponse, error)
}

var BookingServiceDesc = grpc.ServiceDesc{
	ServiceName: BookingServiceName,
	HandlerType: (*BookingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(BookingServiceName, "CreateRentalRequest", BookingServiceServer.CreateRentalRequest),
		unaryMethod(BookingServiceName, "ApproveRentalRequest", BookingServiceServer.ApproveRentalRequest),
		unaryMethod(BookingServiceName, "RejectRentalRequest", BookingServiceServer.RejectRentalRequest),
		unaryMethod(BookingServiceName, "CancelRentalRequest", BookingServiceServer.CancelRentalRequest),
		unaryMethod(BookingServiceName, "MarkPickedUp", BookingServiceServer.MarkPickedUp),
		unaryMethod(BookingServiceName, "MarkReturned", BookingServiceServer.MarkReturned),
		unaryMethod(BookingServiceName, "CompleteRental", BookingServiceServer.CompleteRental),
		unaryMethod(BookingServiceName, "ReissueHandoverToken", BookingServiceServer.ReissueHandoverToken),
		unaryMethod(BookingServiceName, "GetRentalRequest", BookingServiceServer.GetRentalRequest),
		unaryMethod(BookingServiceName, "ListEquipmentRequests", BookingServiceServer.ListEquipmentRequests),
		unaryMethod(BookingServiceName, "GetAvailability", BookingServiceServer.GetAvailability),
		unaryMethod(BookingServiceName, "QuotePrice", BookingServiceServer.QuotePrice),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "farmrent/booking/v1",
}

func RegisterBookingServiceServer(s grpc.ServiceRegistrar, srv BookingServiceServer) {
	s.RegisterService(&BookingServiceDesc, srv)
}

type NotificationServiceServer interface {
	GetNotifications(context.Context, *GetNotificationsRequest) (*GetNotificationsResponse, error)
	MarkNotificationRead(context.Context, *MarkNotificationReadRequest) (*MarkNotificationReadResponse, error)
}

var NotificationServiceDesc = grpc.ServiceDesc{
	ServiceName: NotificationServiceName,
	HandlerType: (*NotificationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(NotificationServiceName, "GetNotifications", NotificationServiceServer.GetNotifications),
		unaryMethod(NotificationServiceName, "MarkNotificationRead", NotificationServiceServer.MarkNotificationRead),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "farmrent/booking/v1",
}

func RegisterNotificationServiceServer(s grpc.ServiceRegistrar, srv NotificationServiceServer) {
	s.RegisterService(&NotificationServiceDesc, srv)
}
