package verification

import (
	"strings"
	"time"
)

// RecordID tipe untuk Record
type RecordID string

// Kind enum: jenis input yang disubmit
type Kind string

const (
	KindText Kind = "text"
	KindURL  Kind = "url"
)

// ParseKind normalizes a wire value into a Kind. Empty means text.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(KindText):
		return KindText, nil
	case string(KindURL):
		return KindURL, nil
	default:
		return "", ErrInvalidKind
	}
}

// Status enum
type Status string

const (
	StatusAuthentic  Status = "real"
	StatusFabricated Status = "fake"
	StatusUncertain  Status = "uncertain"
)

// Valid reports whether s is one of the three verdict values.
func (s Status) Valid() bool {
	switch s {
	case StatusAuthentic, StatusFabricated, StatusUncertain:
		return true
	}
	return false
}

// URLContentPrefix labels the content of records submitted as a URL.
const URLContentPrefix = "Content from: "

// Request is the input to a classification.
type Request struct {
	Kind    Kind   `json:"kind"`
	Content string `json:"content"`
}

// Verdict is what a classifier returns for one request.
type Verdict struct {
	Status     Status   `json:"status"`
	Confidence int      `json:"confidence"`
	Sources    []string `json:"sources"`
	Analysis   string   `json:"analysis"`
}

// Validate checks the verdict before it becomes part of a record.
func (v Verdict) Validate() error {
	if !v.Status.Valid() {
		return ErrInvalidVerdict
	}
	if v.Confidence < 0 || v.Confidence > 100 {
		return ErrInvalidVerdict
	}
	return nil
}

// Aggregate Root: Record. Never mutated after creation.
type Record struct {
	ID         RecordID  `json:"id"`
	TenantID   string    `json:"tenant_id"`
	Kind       Kind      `json:"kind"`
	Content    string    `json:"content"`
	Status     Status    `json:"status"`
	Confidence int       `json:"confidence"`
	Sources    []string  `json:"sources"`
	Analysis   string    `json:"analysis"`
	Timestamp  time.Time `json:"timestamp"`
	ReportURL  string    `json:"report_url,omitempty"`
}

// NewRecord builds a record from a submitted request and the verdict for it.
func NewRecord(id RecordID, tenant string, req Request, v Verdict, at time.Time) Record {
	content := req.Content
	if req.Kind == KindURL {
		content = URLContentPrefix + req.Content
	}
	return Record{
		ID:         id,
		TenantID:   tenant,
		Kind:       req.Kind,
		Content:    content,
		Status:     v.Status,
		Confidence: v.Confidence,
		Sources:    append([]string(nil), v.Sources...),
		Analysis:   v.Analysis,
		Timestamp:  at,
	}
}

// Clone returns a copy that shares no slices with r.
func (r Record) Clone() Record {
	r.Sources = append([]string(nil), r.Sources...)
	return r
}
