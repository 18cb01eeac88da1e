package domain

// Template is a CMS-managed message body plus the provider metadata needed to
// send it (sender ids, template ids registered with the vendor).
type Template struct {
	RefNo    string            `json:"ref_no"`
	Body     string            `json:"body"`
	Subject  string            `json:"subject,omitempty"`
	SenderID string            `json:"sender_id,omitempty"`
	Meta     map[string]string `json:"meta,omitempty"`
}
