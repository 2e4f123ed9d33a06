package domain

import "time"

// SummaryStatus is the outcome of a summarization run
type SummaryStatus string

const (
	SummaryStatusSuccess SummaryStatus = "success"
	SummaryStatusFailed  SummaryStatus = "failed"
)

// SummaryRecord is the audit record of one summarization run
type SummaryRecord struct {
	ID      int64         `json:"id"`
	Content string        `json:"content"`
	Date    time.Time     `json:"date"`
	Status  SummaryStatus `json:"status"`
}
