package grpc

import (
	"farmrent-backend/internal/domain"
)

const dateLayout = "2006-01-02"

// canSeeTokens reports whether viewer may receive handover codes of rt. The
// farmer presents the codes, so owners and anonymous scanners never get them.
func canSeeTokens(viewer *domain.Actor, rt *domain.RentalRequest) bool {
	return viewer != nil && (viewer.ID == rt.FarmerID || viewer.IsAdmin())
}

// MapDomainRentalToWire converts rt for viewer; a nil viewer is anonymous.
func MapDomainRentalToWire(rt *domain.RentalRequest, viewer *domain.Actor) *RentalRequest {
	if rt == nil {
		return nil
	}
	out := &RentalRequest{
		ID:                       rt.ID,
		EquipmentID:              rt.EquipmentID,
		OwnerID:                  rt.OwnerID,
		FarmerID:                 rt.FarmerID,
		StartDate:                rt.StartDate.Format(dateLayout),
		EndDate:                  rt.EndDate.Format(dateLayout),
		RentalDuration:           rt.DurationDays,
		Price:                    rt.Price,
		TotalAmountCents:         rt.TotalAmountCents,
		SecurityDepositCents:     rt.SecurityDepositCents,
		DeliveryAddress:          rt.DeliveryAddress,
		Status:                   string(rt.Status),
		RejectionReason:          rt.RejectionReason,
		CancelReason:             rt.CancelReason,
		ConflictsWithReservation: rt.ConflictsWithReservation,
		CreatedAt:                rt.CreatedAt,
		UpdatedAt:                rt.UpdatedAt,
	}
	if canSeeTokens(viewer, rt) {
		out.PickupToken = rt.PickupToken
		out.ReturnToken = rt.ReturnToken
	}
	return out
}

func MapDomainReservationToWire(r *domain.Reservation) *Reservation {
	return &Reservation{
		RequestID: r.RequestID,
		StartDate: r.StartDate.Format(dateLayout),
		EndDate:   r.EndDate.Format(dateLayout),
	}
}

func mapDomainNotificationToWire(n *domain.Notification) *Notification {
	return &Notification{
		ID:         n.ID,
		Title:      n.Title,
		Message:    n.Message,
		IsRead:     n.IsRead,
		Attributes: n.Attributes,
		CreatedAt:  n.CreatedAt,
	}
}
