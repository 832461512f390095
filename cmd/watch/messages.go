package main

import "github.com/rxtech-lab/market-sim/internal/feed"

// FeedEventMsg carries one update from the feed subscription.
type FeedEventMsg struct {
	Event feed.Event
}

// StreamClosedMsg signals that the subscription channel was closed.
type StreamClosedMsg struct{}
