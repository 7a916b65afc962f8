package errcode

const (
	Invalid     = "invalid"
	Unavailable = "unavailable"
	NotFound    = "not_found"
	TooMany     = "too_many_requests"
	Internal    = "internal"
)
