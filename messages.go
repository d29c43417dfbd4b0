package main

import (
	"time"

	"charm-wallet-connect/session"
)

// -------------------- TEA MESSAGES --------------------

// connectResultMsg is the outcome of one connect attempt
type connectResultMsg struct {
	conn *session.Connection
	err  error
}

// connectionChangedMsg announces a newly published connection
type connectionChangedMsg struct {
	conn *session.Connection
}

// detailsLoadedMsg carries the fetched details, tagged with the connection
// and the fetch they came from
type detailsLoadedMsg struct {
	d    session.Details
	seq  uint64
	took time.Duration
}

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct{}

// clearCopiedMsg hides the copy feedback
type clearCopiedMsg struct{}

// logInitMsg signals that log viewport should be initialized
type logInitMsg struct{}
