// Package sanitize projects raw upstream schedule records onto the safe
// public subset served to browser widgets. The projection both shrinks the
// payload and keeps personal data and internal vendor fields from leaking.
package sanitize

import (
	"fitness-schedule-proxy/internal/models"
)

// Class converts one raw upstream record into the fixed public shape. It is
// a pure function with no failure path: missing or malformed nested objects
// (service, room, employee) degrade to null-valued subfields rather than an
// error, and absent fields become null, never missing keys.
func Class(record map[string]any) models.SanitizedClass {
	service := subObject(record, "service")
	room := subObject(record, "room")
	employee := subObject(record, "employee")

	// an empty-string service title counts as absent for the fallback
	title := service["title"]
	if title == nil || title == "" {
		title = record["title"]
	}

	return models.SanitizedClass{
		AppointmentID:         record["appointment_id"],
		Title:                 title,
		ServiceID:             service["id"],
		StartDate:             record["start_date"],
		EndDate:               record["end_date"],
		Duration:              record["duration"],
		Capacity:              record["capacity"],
		Booked:                record["booked"],
		WebBooked:             record["web_booked"],
		WebCapacity:           record["web_capacity"],
		Online:                record["online"],
		Canceled:              record["canceled"],
		ReasonForCancellation: record["reason_for_cancellation"],
		Room: models.RoomInfo{
			ID:    room["id"],
			Title: room["title"],
		},
		Employee: models.EmployeeInfo{
			ID:   employee["id"],
			Name: employee["name"],
		},
		Color: service["color"],
	}
}

// subObject returns the named field as an object, or an empty map when the
// field is absent or not an object. Lookups on the empty map yield nil,
// which serializes as null.
func subObject(record map[string]any, field string) map[string]any {
	if nested, ok := record[field].(map[string]any); ok {
		return nested
	}
	return map[string]any{}
}
