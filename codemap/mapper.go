// Package codemap translates between internal room/rate identifiers and the
// external system's InvTypeCode/RatePlanCode space.
package codemap

import (
	"github.com/sirupsen/logrus"
)

type Kind string

const (
	KindRoom     Kind = "room"
	KindRatePlan Kind = "rateplan"
)

// Mapper holds the two mapping tables. Both tables are copied at construction
// and never written again, so lookups are safe for concurrent use.
type Mapper struct {
	toExternal map[Kind]map[string]string
	toInternal map[Kind]map[string]string
	log        *logrus.Logger
}

func New(rooms, ratePlans map[string]string, log *logrus.Logger) *Mapper {
	m := &Mapper{
		toExternal: map[Kind]map[string]string{KindRoom: {}, KindRatePlan: {}},
		toInternal: map[Kind]map[string]string{KindRoom: {}, KindRatePlan: {}},
		log:        log,
	}
	for internal, external := range rooms {
		m.toExternal[KindRoom][internal] = external
		m.toInternal[KindRoom][external] = internal
	}
	for internal, external := range ratePlans {
		m.toExternal[KindRatePlan][internal] = external
		m.toInternal[KindRatePlan][external] = internal
	}
	return m
}

// ToExternal maps an internal identifier to the external code. Unmapped codes
// pass through unchanged: a missing entry only degrades fidelity, it must
// never block a sync.
func (m *Mapper) ToExternal(kind Kind, internal string) string {
	if external, ok := m.toExternal[kind][internal]; ok {
		return external
	}
	m.warnUnmapped(kind, "to_external", internal)
	return internal
}

// ToInternal maps an external code back to the internal identifier, with the
// same identity fallback.
func (m *Mapper) ToInternal(kind Kind, external string) string {
	if internal, ok := m.toInternal[kind][external]; ok {
		return internal
	}
	m.warnUnmapped(kind, "to_internal", external)
	return external
}

func (m *Mapper) warnUnmapped(kind Kind, direction, code string) {
	if m.log == nil {
		return
	}
	m.log.WithFields(logrus.Fields{
		"kind":      kind,
		"direction": direction,
		"code":      code,
	}).Warn("unmapped code, using identity")
}
