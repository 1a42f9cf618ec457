package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// BookingClient calls BookingService and NotificationService over a
// connection using the JSON codec.
type BookingClient struct {
	cc grpc.ClientConnInterface
}

func NewBookingClient(cc grpc.ClientConnInterface) *BookingClient {
	return &BookingClient{cc: cc}
}

func (c *BookingClient) invoke(ctx context.Context, service, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+service+"/"+method, in, out, opts...)
}

func (c *BookingClient) CreateRentalRequest(ctx context.Context, in *CreateRentalRequestRequest, opts ...grpc.CallOption) (*RentalRequestResponse, error) {
	out := new(RentalRequestResponse)
	if err := c.invoke(ctx, BookingServiceName, "CreateRentalRequest", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingClient) ApproveRentalRequest(ctx context.Context, in *RentalRequestIDRequest, opts ...grpc.CallOption) (*RentalRequestResponse, error) {
	out := new(RentalRequestResponse)
	if err := c.invoke(ctx, BookingServiceName, "ApproveRentalRequest", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingClient) RejectRentalRequest(ctx context.Context, in *RentalRequestReasonRequest, opts ...grpc.CallOption) (*RentalRequestResponse, error) {
	out := new(RentalRequestResponse)
	if err := c.invoke(ctx, BookingServiceName, "RejectRentalRequest", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingClient) CancelRentalRequest(ctx context.Context, in *RentalRequestReasonRequest, opts ...grpc.CallOption) (*RentalRequestResponse, error) {
	out := new(RentalRequestResponse)
	if err := c.invoke(ctx, BookingServiceName, "CancelRentalRequest", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingClient) MarkPickedUp(ctx context.Context, in *HandoverRequest, opts ...grpc.CallOption) (*RentalRequestResponse, error) {
	out := new(RentalRequestResponse)
	if err := c.invoke(ctx, BookingServiceName, "MarkPickedUp", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingClient) MarkReturned(ctx context.Context, in *HandoverRequest, opts ...grpc.CallOption) (*RentalRequestResponse, error) {
	out := new(RentalRequestResponse)
	if err := c.invoke(ctx, BookingServiceName, "MarkReturned", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingClient) CompleteRental(ctx context.Context, in *RentalRequestIDRequest, opts ...grpc.CallOption) (*RentalRequestResponse, error) {
	out := new(RentalRequestResponse)
	if err := c.invoke(ctx, BookingServiceName, "CompleteRental", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingClient) ReissueHandoverToken(ctx context.Context, in *ReissueHandoverTokenRequest, opts ...grpc.CallOption) (*ReissueHandoverTokenResponse, error) {
	out := new(ReissueHandoverTokenResponse)
	if err := c.invoke(ctx, BookingServiceName, "ReissueHandoverToken", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingClient) GetRentalRequest(ctx context.Context, in *RentalRequestIDRequest, opts ...grpc.CallOption) (*RentalRequestResponse, error) {
	out := new(RentalRequestResponse)
	if err := c.invoke(ctx, BookingServiceName, "GetRentalRequest", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingClient) ListEquipmentRequests(ctx context.Context, in *EquipmentRequest, opts ...grpc.CallOption) (*ListEquipmentRequestsResponse, error) {
	out := new(ListEquipmentRequestsResponse)
	if err := c.invoke(ctx, BookingServiceName, "ListEquipmentRequests", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingClient) GetAvailability(ctx context.Context, in *EquipmentRequest, opts ...grpc.CallOption) (*GetAvailabilityResponse, error) {
	out := new(GetAvailabilityResponse)
	if err := c.invoke(ctx, BookingServiceName, "GetAvailability", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingClient) QuotePrice(ctx context.Context, in *QuotePriceRequest, opts ...grpc.CallOption) (*QuotePriceResponse, error) {
	out := new(QuotePriceResponse)
	if err := c.invoke(ctx, BookingServiceName, "QuotePrice", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingClient) GetNotifications(ctx context.Context, in *GetNotificationsRequest, opts ...grpc.CallOption) (*GetNotificationsResponse, error) {
	out := new(GetNotificationsResponse)
	if err := c.invoke(ctx, NotificationServiceName, "GetNotifications", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingClient) MarkNotificationRead(ctx context.Context, in *MarkNotificationReadRequest, opts ...grpc.CallOption) (*MarkNotificationReadResponse, error) {
	out := new(MarkNotificationReadResponse)
	if err := c.invoke(ctx, NotificationServiceName, "MarkNotificationRead", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
