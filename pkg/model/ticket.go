package model

// Ticket is a helpdesk work item. Only its group association is relevant to this service.
type Ticket struct {
	ID      string `json:"_id"`
	UID     int64  `json:"uid"`
	Subject string `json:"subject"`
	Group   string `json:"group"`
	Deleted bool   `json:"deleted"`
}
