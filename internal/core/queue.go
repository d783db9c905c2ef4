package core

import "time"

// Queue is the ordered list of pending songs. Index 0 plays next.
type Queue []Song

// Next returns the song that plays next, or nil if the queue is empty.
func (q Queue) Next() *Song {
	if len(q) == 0 {
		return nil
	}
	return &q[0]
}

// Len returns the number of queued songs.
func (q Queue) Len() int {
	return len(q)
}

// IsEmpty returns true if the queue has no songs.
func (q Queue) IsEmpty() bool {
	return len(q) == 0
}

// TotalDuration sums the known durations of the queued songs.
func (q Queue) TotalDuration() time.Duration {
	var total float64
	for _, s := range q {
		total += s.Duration
	}
	return Seconds(total)
}
