package models

// SanitizedClass is the public projection of one upstream schedule record.
// Every field is always present in the JSON output; values absent upstream
// are emitted as null, never dropped. Field types are passed through from
// the upstream payload untouched, which is why they are all `any`.
type SanitizedClass struct {
	AppointmentID         any          `json:"appointment_id"`
	Title                 any          `json:"title"`
	ServiceID             any          `json:"service_id"`
	StartDate             any          `json:"start_date"`
	EndDate               any          `json:"end_date"`
	Duration              any          `json:"duration"`
	Capacity              any          `json:"capacity"`
	Booked                any          `json:"booked"`
	WebBooked             any          `json:"web_booked"`
	WebCapacity           any          `json:"web_capacity"`
	Online                any          `json:"online"`
	Canceled              any          `json:"canceled"`
	ReasonForCancellation any          `json:"reason_for_cancellation"`
	Room                  RoomInfo     `json:"room"`
	Employee              EmployeeInfo `json:"employee"`
	Color                 any          `json:"color"`
}

// RoomInfo is the public subset of the upstream room object.
type RoomInfo struct {
	ID    any `json:"id"`
	Title any `json:"title"`
}

// EmployeeInfo is the public subset of the upstream employee object.
type EmployeeInfo struct {
	ID   any `json:"id"`
	Name any `json:"name"`
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse is the common error body for client-facing failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`

	// Upstream diagnostics, populated only when DEBUG_UPSTREAM_ERRORS is on.
	Upstream *UpstreamDetail `json:"upstream,omitempty"`
}

// UpstreamDetail carries redactable diagnostics about a failed upstream call.
type UpstreamDetail struct {
	StatusCode int    `json:"status_code,omitempty"`
	URL        string `json:"url,omitempty"`
	Body       string `json:"body,omitempty"`
}
