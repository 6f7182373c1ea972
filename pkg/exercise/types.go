// Package exercise defines the canonical record and match types shared by
// every resolution component. The rest of the system only ever sees these
// shapes; catalog-specific response schemas stay inside the gateway.
package exercise

import (
	"strings"
	"time"
)

// MatchType classifies which resolution strategy produced a result.
type MatchType string

const (
	MatchExact      MatchType = "exact"
	MatchNormalized MatchType = "normalized"
	MatchSemantic   MatchType = "semantic"
	MatchFuzzy      MatchType = "fuzzy"
	MatchPartial    MatchType = "partial"
	MatchFallback   MatchType = "fallback"
)

// Source identifies where the record itself came from.
type Source string

const (
	SourceLocalMapping Source = "local_mapping"
	SourceCache        Source = "cache"
	SourceRemote       Source = "remote"
	SourceGenerated    Source = "generated"
)

// Record is the canonical exercise shape. A record is only usable as a
// resolution result when GifURL is non-empty; an empty media URL means the
// entry is awaiting enrichment, never that "no demonstration" is acceptable.
type Record struct {
	ID               string   `json:"id" firestore:"id"`
	Name             string   `json:"name" firestore:"name"`
	GifURL           string   `json:"gifUrl" firestore:"gif_url"`
	TargetMuscles    []string `json:"targetMuscles" firestore:"target_muscles"`
	BodyParts        []string `json:"bodyParts" firestore:"body_parts"`
	Equipments       []string `json:"equipments" firestore:"equipments"`
	SecondaryMuscles []string `json:"secondaryMuscles" firestore:"secondary_muscles"`
	Instructions     []string `json:"instructions" firestore:"instructions"`
}

// HasMedia reports whether the record can satisfy a resolution request.
func (r *Record) HasMedia() bool {
	return r != nil && r.GifURL != ""
}

// Key returns the lower-cased name key used for cache indexing.
func (r *Record) Key() string {
	return strings.ToLower(r.Name)
}

// MatchResult wraps a record with match provenance. Confidence is a [0,1]
// estimate used for classification and tie-breaking, not filtering.
type MatchResult struct {
	Record     Record    `json:"record"`
	Confidence float64   `json:"confidence"`
	MatchType  MatchType `json:"matchType"`
	Source     Source    `json:"source"`
}

// Degraded reports whether the demonstration shown may not depict the
// requested exercise (synthesised record rather than a catalog hit).
func (m *MatchResult) Degraded() bool {
	return m != nil && m.Source == SourceGenerated
}

// SnapshotEntry is one cache entry in the durable snapshot.
type SnapshotEntry struct {
	Key        string    `json:"key" firestore:"key"`
	Record     Record    `json:"record" firestore:"record"`
	InsertedAt time.Time `json:"insertedAt" firestore:"inserted_at"`
}

// PageResult is one page of a full catalog walk.
type PageResult struct {
	Exercises  []Record `json:"exercises"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalPages int      `json:"totalPages"`
	TotalCount int      `json:"totalCount"`
}
