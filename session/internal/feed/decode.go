package feed

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Astemirdum/study-seats/pkg/kafka"
	"github.com/Astemirdum/study-seats/pkg/validate"
	"github.com/Astemirdum/study-seats/session/internal/model"
)

var ErrBadEvent = errors.New("bad seat event")

var eventValidator = validate.NewCustomValidator().RegisterStructValidation(statusUnlessDelete, kafka.SeatEvent{})

func statusUnlessDelete(sl validator.StructLevel) {
	ev := sl.Current().Interface().(kafka.SeatEvent)
	if ev.Type != kafka.SeatDelete && ev.Seat.Status == "" {
		sl.ReportError(ev.Seat.Status, "Status", "status", "required_unless", "delete")
	}
}

// DecodeSeatEvent turns a feed message into a typed event. Unknown types or
// statuses are rejected here so nothing past this point sees them.
func DecodeSeatEvent(data []byte) (model.SeatEvent, error) {
	var raw kafka.SeatEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.SeatEvent{}, errors.Wrap(ErrBadEvent, err.Error())
	}
	if err := eventValidator.Validate(raw); err != nil {
		return model.SeatEvent{}, errors.Wrap(ErrBadEvent, err.Error())
	}
	return model.SeatEvent{
		Type: model.SeatEventType(raw.Type),
		Seat: model.Seat{
			ID:        raw.Seat.ID,
			Label:     raw.Seat.Label,
			LibraryID: raw.Seat.LibraryID,
			FloorID:   raw.Seat.FloorID,
			RoomID:    raw.Seat.RoomID,
			Status:    model.SeatStatus(raw.Seat.Status),
			Amenities: raw.Seat.Amenities,
		},
		At: raw.At,
	}, nil
}
