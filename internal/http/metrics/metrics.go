package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

// Collector counts HTTP traffic and ledger transitions.
type Collector struct {
	requests            atomic.Uint64
	errors              atomic.Uint64
	rateLimited         atomic.Uint64
	invitationsCreated  atomic.Uint64
	invitationsAccepted atomic.Uint64
	invitationsDeclined atomic.Uint64
	applicationsCreated atomic.Uint64
	alreadyApplied      atomic.Uint64
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) IncRequests()            { c.requests.Add(1) }
func (c *Collector) IncErrors()              { c.errors.Add(1) }
func (c *Collector) IncRateLimited()         { c.rateLimited.Add(1) }
func (c *Collector) IncInvitationsCreated()  { c.invitationsCreated.Add(1) }
func (c *Collector) IncInvitationsAccepted() { c.invitationsAccepted.Add(1) }
func (c *Collector) IncInvitationsDeclined() { c.invitationsDeclined.Add(1) }
func (c *Collector) IncApplicationsCreated() { c.applicationsCreated.Add(1) }
func (c *Collector) IncAlreadyApplied()      { c.alreadyApplied.Add(1) }

type Snapshot struct {
	Requests            uint64
	Errors              uint64
	RateLimited         uint64
	InvitationsCreated  uint64
	InvitationsAccepted uint64
	InvitationsDeclined uint64
	ApplicationsCreated uint64
	AlreadyApplied      uint64
}

func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Requests:            c.requests.Load(),
		Errors:              c.errors.Load(),
		RateLimited:         c.rateLimited.Load(),
		InvitationsCreated:  c.invitationsCreated.Load(),
		InvitationsAccepted: c.invitationsAccepted.Load(),
		InvitationsDeclined: c.invitationsDeclined.Load(),
		ApplicationsCreated: c.applicationsCreated.Load(),
		AlreadyApplied:      c.alreadyApplied.Load(),
	}
}

type Handler struct {
	collector *Collector
}

func NewHandler(collector *Collector) *Handler {
	return &Handler{collector: collector}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	var snap Snapshot
	if h.collector != nil {
		snap = h.collector.Snapshot()
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	counter(w, "talentx_requests_total", "Total number of HTTP requests.", snap.Requests)
	counter(w, "talentx_errors_total", "Total number of 5xx HTTP responses.", snap.Errors)
	counter(w, "talentx_rate_limited_total", "Requests rejected by rate limiting.", snap.RateLimited)
	counter(w, "talentx_invitations_created_total", "Invitations sent.", snap.InvitationsCreated)
	counter(w, "talentx_invitations_accepted_total", "Invitations accepted.", snap.InvitationsAccepted)
	counter(w, "talentx_invitations_declined_total", "Invitations declined.", snap.InvitationsDeclined)
	counter(w, "talentx_applications_created_total", "Applications recorded, manual or from invitations.", snap.ApplicationsCreated)
	counter(w, "talentx_accept_already_applied_total", "Accepted invitations that found an existing application.", snap.AlreadyApplied)
}

func counter(w http.ResponseWriter, name, help string, value uint64) {
	_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	_, _ = fmt.Fprintf(w, "# TYPE %s counter\n", name)
	_, _ = fmt.Fprintf(w, "%s %d\n", name, value)
}
