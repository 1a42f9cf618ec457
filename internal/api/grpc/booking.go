package grpc

import (
	"context"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/service"
)

type BookingHandler struct {
	bookingSvc service.BookingService
}

func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

// actorCall runs an authenticated call and wraps the resulting request for the caller.
func (h *BookingHandler) actorCall(ctx context.Context, call func(domain.Actor) (*domain.RentalRequest, error)) (*RentalRequestResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rt, err := call(actor)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &RentalRequestResponse{RentalRequest: MapDomainRentalToWire(rt, &actor)}, nil
}

func (h *BookingHandler) CreateRentalRequest(ctx context.Context, req *CreateRentalRequestRequest) (*RentalRequestResponse, error) {
	return h.actorCall(ctx, func(actor domain.Actor) (*domain.RentalRequest, error) {
		return h.bookingSvc.CreateRequest(ctx, actor, service.CreateRequestInput{
			EquipmentID:     req.EquipmentID,
			StartDate:       req.StartDate,
			EndDate:         req.EndDate,
			DeliveryAddress: req.DeliveryAddress,
		})
	})
}

func (h *BookingHandler) ApproveRentalRequest(ctx context.Context, req *RentalRequestIDRequest) (*RentalRequestResponse, error) {
	return h.actorCall(ctx, func(actor domain.Actor) (*domain.RentalRequest, error) {
		return h.bookingSvc.Approve(ctx, actor, req.RequestID)
	})
}

func (h *BookingHandler) RejectRentalRequest(ctx context.Context, req *RentalRequestReasonRequest) (*RentalRequestResponse, error) {
	return h.actorCall(ctx, func(actor domain.Actor) (*domain.RentalRequest, error) {
		return h.bookingSvc.Reject(ctx, actor, req.RequestID, req.Reason)
	})
}

func (h *BookingHandler) CancelRentalRequest(ctx context.Context, req *RentalRequestReasonRequest) (*RentalRequestResponse, error) {
	return h.actorCall(ctx, func(actor domain.Actor) (*domain.RentalRequest, error) {
		return h.bookingSvc.Cancel(ctx, actor, req.RequestID, req.Reason)
	})
}

func (h *BookingHandler) CompleteRental(ctx context.Context, req *RentalRequestIDRequest) (*RentalRequestResponse, error) {
	return h.actorCall(ctx, func(actor domain.Actor) (*domain.RentalRequest, error) {
		return h.bookingSvc.Complete(ctx, actor, req.RequestID)
	})
}

func (h *BookingHandler) GetRentalRequest(ctx context.Context, req *RentalRequestIDRequest) (*RentalRequestResponse, error) {
	return h.actorCall(ctx, func(actor domain.Actor) (*domain.RentalRequest, error) {
		return h.bookingSvc.GetRequest(ctx, actor, req.RequestID)
	})
}

// MarkPickedUp is called by whoever scans the code. The response never
// carries the new return code; the farmer fetches it with GetRentalRequest.
func (h *BookingHandler) MarkPickedUp(ctx context.Context, req *HandoverRequest) (*RentalRequestResponse, error) {
	rt, err := h.bookingSvc.MarkPickedUp(ctx, req.Token)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &RentalRequestResponse{RentalRequest: MapDomainRentalToWire(rt, nil)}, nil
}

func (h *BookingHandler) MarkReturned(ctx context.Context, req *HandoverRequest) (*RentalRequestResponse, error) {
	rt, err := h.bookingSvc.MarkReturned(ctx, req.Token)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &RentalRequestResponse{RentalRequest: MapDomainRentalToWire(rt, nil)}, nil
}

func (h *BookingHandler) ReissueHandoverToken(ctx context.Context, req *ReissueHandoverTokenRequest) (*ReissueHandoverTokenResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	direction, err := domain.ParseHandoverDirection(req.Direction)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	tok, err := h.bookingSvc.ReissueToken(ctx, actor, req.RequestID, direction)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	out := &HandoverToken{RequestID: tok.RequestID, Direction: string(tok.Direction), IssuedAt: tok.IssuedAt}
	// An owner may trigger the reissue, but only the farmer and admins receive the code.
	if actor.IsAdmin() || h.isFarmer(ctx, actor, tok.RequestID) {
		out.Token = tok.Value
	}
	return &ReissueHandoverTokenResponse{HandoverToken: out}, nil
}

func (h *BookingHandler) isFarmer(ctx context.Context, actor domain.Actor, requestID int64) bool {
	rt, err := h.bookingSvc.GetRequest(ctx, actor, requestID)
	return err == nil && rt.FarmerID == actor.ID
}

func (h *BookingHandler) ListEquipmentRequests(ctx context.Context, req *EquipmentRequest) (*ListEquipmentRequestsResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	list, err := h.bookingSvc.ListEquipmentRequests(ctx, actor, req.EquipmentID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	out := make([]*RentalRequest, len(list))
	for i := range list {
		out[i] = MapDomainRentalToWire(&list[i], &actor)
	}
	return &ListEquipmentRequestsResponse{RentalRequests: out}, nil
}

func (h *BookingHandler) GetAvailability(ctx context.Context, req *EquipmentRequest) (*GetAvailabilityResponse, error) {
	list, err := h.bookingSvc.Availability(ctx, req.EquipmentID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	out := make([]*Reservation, len(list))
	for i := range list {
		out[i] = MapDomainReservationToWire(&list[i])
	}
	return &GetAvailabilityResponse{EquipmentID: req.EquipmentID, Reservations: out}, nil
}

func (h *BookingHandler) QuotePrice(ctx context.Context, req *QuotePriceRequest) (*QuotePriceResponse, error) {
	price, err := h.bookingSvc.Quote(ctx, req.EquipmentID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &QuotePriceResponse{Price: *price}, nil
}
