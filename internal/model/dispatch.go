package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Channel names a notification delivery mechanism.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelFax   Channel = "fax"
)

// Channels lists every supported channel.
func Channels() []Channel {
	return []Channel{ChannelEmail, ChannelFax}
}

// Valid reports whether c is a known channel, ignoring case and surrounding space.
func (c Channel) Valid() bool {
	name := strings.ToLower(strings.TrimSpace(string(c)))
	for _, known := range Channels() {
		if name == string(known) {
			return true
		}
	}
	return false
}

// Entity is a sending organization bound to one channel.
type Entity struct {
	Name    string
	Channel Channel
}

// Letter is rendered notification text. Never mutated after rendering.
type Letter struct {
	CaseCode string
	Tone     string
	Text     string
}

// Dispatch records one delivered letter.
type Dispatch struct {
	ReceiptID   string
	Time        time.Time
	CaseCode    string
	Company     string
	Entity      string
	Channel     Channel
	Recipient   string
	Total       string
	ArchivePath string // empty when archiving was off or failed
}

// Skip records a record that was not processed.
type Skip struct {
	Line     int
	CaseCode string
	Reason   string
}

// Summary is the outcome of one run.
type Summary struct {
	RunID      string
	Entity     Entity
	Tone       string
	GrandTotal decimal.Decimal
	Records    int // records read from the file
	Requested  int // records the user asked to process
	Dispatches []Dispatch
	Skips      []Skip
}
