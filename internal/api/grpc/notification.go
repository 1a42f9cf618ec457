package grpc

import (
	"context"

	"farmrent-backend/internal/service"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) GetNotifications(ctx context.Context, req *GetNotificationsRequest) (*GetNotificationsResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	notes, count, err := h.noteSvc.GetNotifications(ctx, actor.ID, req.Page, req.PageSize)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	out := make([]*Notification, len(notes))
	for i := range notes {
		out[i] = mapDomainNotificationToWire(&notes[i])
	}
	return &GetNotificationsResponse{
		Notifications: out,
		TotalCount:    count,
	}, nil
}

func (h *NotificationHandler) MarkNotificationRead(ctx context.Context, req *MarkNotificationReadRequest) (*MarkNotificationReadResponse, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.noteSvc.MarkAsRead(ctx, actor.ID, req.NotificationID); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &MarkNotificationReadResponse{Success: true}, nil
}
