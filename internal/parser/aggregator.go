package parser

import (
	"sort"

	"github.com/insightdelivered/titulos-converter/internal/models"
)

// State of an Aggregator.
type State int

const (
	NoClientOpen State = iota
	ClientOpen
)

func (s State) String() string {
	if s == ClientOpen {
		return "ClientOpen"
	}
	return "NoClientOpen"
}

// openClient is the client block currently receiving entries.
type openClient struct {
	code    string
	name    string
	entries []models.Entry
	totals  *models.Totals
	pages   map[int]struct{}
}

// Aggregator groups classified lines into client blocks. At most one client
// is open at a time; it is finalized by the next header or by Finish.
// Clients that never received an entry are dropped.
//
// An Aggregator belongs to a single document parse and is not safe for
// concurrent use.
type Aggregator struct {
	open      *openClient
	clients   []models.Client
	discarded int
}

// State reports whether a client block is open.
func (a *Aggregator) State() State {
	if a.open != nil {
		return ClientOpen
	}
	return NoClientOpen
}

// StartClient finalizes the open client, if any, and opens a new one.
func (a *Aggregator) StartClient(code, name string) {
	a.finalize()
	a.open = &openClient{
		code:  code,
		name:  name,
		pages: make(map[int]struct{}),
	}
}

// AddEntry appends e to the open client. It returns false, and drops e,
// when no client is open.
func (a *Aggregator) AddEntry(e models.Entry) bool {
	if a.open == nil {
		return false
	}
	a.open.entries = append(a.open.entries, e)
	a.open.pages[e.Page] = struct{}{}
	return true
}

// SetTotals records the subtotal line of the open client, replacing any
// earlier one. It returns false when no client is open.
func (a *Aggregator) SetTotals(t models.Totals) bool {
	if a.open == nil {
		return false
	}
	a.open.totals = &t
	return true
}

// Finish finalizes the open client and returns every emitted client in
// header order. The result is never nil.
func (a *Aggregator) Finish() []models.Client {
	a.finalize()
	if a.clients == nil {
		return []models.Client{}
	}
	return a.clients
}

// Discarded is the number of client blocks dropped for having no entries.
func (a *Aggregator) Discarded() int {
	return a.discarded
}

func (a *Aggregator) finalize() {
	c := a.open
	if c == nil {
		return
	}
	a.open = nil

	if len(c.entries) == 0 {
		a.discarded++
		return
	}

	pages := make([]int, 0, len(c.pages))
	for p := range c.pages {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	a.clients = append(a.clients, models.Client{
		Code:        c.code,
		Name:        c.name,
		Entries:     c.entries,
		Totals:      c.totals,
		PageNumbers: pages,
	})
}
