package service

import "fmt"

// FeedFetchError marks a per-source fetch or parse failure. Collection logs
// it and moves on to the next source.
type FeedFetchError struct {
	Source string
	Err    error
}

func (e *FeedFetchError) Error() string {
	return fmt.Sprintf("feed %s: %v", e.Source, e.Err)
}

func (e *FeedFetchError) Unwrap() error {
	return e.Err
}
