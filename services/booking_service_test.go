package services

import (
	"testing"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/model"
	"github.com/stretchr/testify/assert"
)

func TestCanUpdateStatus(t *testing.T) {
	owned := &model.Booking{UserID: 1, Status: model.BookingStatusConfirmed}
	canceled := &model.Booking{UserID: 1, Status: model.BookingStatusCanceled}

	tests := []struct {
		name      string
		booking   *model.Booking
		callerID  uint
		role      string
		newStatus string
		wantErr   error
	}{
		{"owner cancels own booking", owned, 1, model.RoleUser, model.BookingStatusCanceled, nil},
		{"owner cannot confirm", owned, 1, model.RoleUser, model.BookingStatusConfirmed, ErrForbidden},
		{"owner cannot complete", owned, 1, model.RoleUser, model.BookingStatusCompleted, ErrForbidden},
		{"stranger cannot cancel", owned, 2, model.RoleUser, model.BookingStatusCanceled, ErrForbidden},
		{"re-cancel rejected", canceled, 1, model.RoleUser, model.BookingStatusCanceled, ErrAlreadyCanceled},
		{"admin sets any status", owned, 9, model.RoleAdmin, model.BookingStatusCompleted, nil},
		{"admin cancels someone else's booking", owned, 9, model.RoleAdmin, model.BookingStatusCanceled, nil},
		{"admin re-confirms a canceled booking", canceled, 9, model.RoleAdmin, model.BookingStatusConfirmed, nil},
		{"unknown status rejected", owned, 1, model.RoleUser, "expired", ErrInvalidStatus},
		{"unknown status rejected for admin", owned, 9, model.RoleAdmin, "expired", ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanUpdateStatus(tt.booking, tt.callerID, tt.role, tt.newStatus)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
