package domain

import "strings"

// ServiceStatus is the canonical service status vocabulary used by profiles and
// eligibility rules.
type ServiceStatus string

const (
	ServiceStatusActive  ServiceStatus = "active"
	ServiceStatusRetired ServiceStatus = "retired"
	ServiceStatusFamily  ServiceStatus = "family"
)

// RosterStatus is the vocabulary accepted by the roster eligibility query
// (POST /chatbot/eligible-schemes). It overlaps ServiceStatus but is not equal to it.
type RosterStatus string

const (
	RosterStatusServing      RosterStatus = "serving"
	RosterStatusRetired      RosterStatus = "retired"
	RosterStatusExServiceman RosterStatus = "ex-serviceman"
)

// RosterToService maps the roster vocabulary onto the canonical one.
//
// The mapping is lossy: ex-serviceman collapses onto retired, and no roster value
// maps to family. Callers that need to know about the gap use ServiceToRoster,
// which reports ok=false for family.
var RosterToService = map[RosterStatus]ServiceStatus{
	RosterStatusServing:      ServiceStatusActive,
	RosterStatusRetired:      ServiceStatusRetired,
	RosterStatusExServiceman: ServiceStatusRetired,
}

var serviceToRoster = map[ServiceStatus]RosterStatus{
	ServiceStatusActive:  RosterStatusServing,
	ServiceStatusRetired: RosterStatusRetired,
}

// ServiceToRoster returns the roster status for s. ok is false for statuses with
// no roster equivalent (family).
func ServiceToRoster(s ServiceStatus) (RosterStatus, bool) {
	r, ok := serviceToRoster[s]
	return r, ok
}

// ParseServiceStatus accepts either vocabulary and returns the canonical status.
func ParseServiceStatus(s string) (ServiceStatus, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch ServiceStatus(v) {
	case ServiceStatusActive, ServiceStatusRetired, ServiceStatusFamily:
		return ServiceStatus(v), true
	}
	if mapped, ok := RosterToService[RosterStatus(v)]; ok {
		return mapped, true
	}
	return "", false
}

// ParseRosterStatus accepts only the roster vocabulary.
func ParseRosterStatus(s string) (RosterStatus, bool) {
	v := RosterStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := RosterToService[v]; ok {
		return v, true
	}
	return "", false
}

// Profile is the requester's service record used for eligibility matching.
// It is read-only for the duration of an evaluation.
type Profile struct {
	Rank           string
	Age            int
	Gender         string
	ServiceYears   int
	Status         ServiceStatus
	Specialization string
	Batch          string

	// Display-only; not used by eligibility.
	FamilySize     int
	CurrentPosting string
}
