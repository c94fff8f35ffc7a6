// Package activity keeps a persistent log of every backend API call.
package activity

import (
	"context"
	"log"
	"time"

	"github.com/ziadkadry99/ragui/internal/apiclient"
)

// Entry is a single logged API call.
type Entry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id"`
	Method     string    `json:"method"`
	Endpoint   string    `json:"endpoint"`
	Status     int       `json:"status"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}

// Recorder adapts a Store to apiclient.Observer.
type Recorder struct {
	store *Store
}

// NewRecorder creates a Recorder writing to store.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// ObserveCall records call. The write outlives the request's cancellation so
// superseded and timed-out calls are logged too.
func (r *Recorder) ObserveCall(ctx context.Context, call apiclient.Call) {
	e := Entry{
		RequestID:  call.RequestID,
		Method:     call.Method,
		Endpoint:   call.Endpoint,
		Status:     call.Status,
		DurationMS: call.Duration.Milliseconds(),
	}
	if call.Err != nil {
		e.Error = call.Err.Error()
	}
	if err := r.store.Record(context.WithoutCancel(ctx), e); err != nil {
		log.Printf("activity: recording %s %s: %v", call.Method, call.Endpoint, err)
	}
}
