package models

import (
	"fmt"
	"strings"
	"time"
)

// LinkType expresses the semantic relation a link carries.
type LinkType string

const (
	LinkReference      LinkType = "reference"
	LinkExtends        LinkType = "extends"
	LinkExtendedBy     LinkType = "extended_by"
	LinkRefines        LinkType = "refines"
	LinkRefinedBy      LinkType = "refined_by"
	LinkContradicts    LinkType = "contradicts"
	LinkContradictedBy LinkType = "contradicted_by"
	LinkQuestions      LinkType = "questions"
	LinkQuestionedBy   LinkType = "questioned_by"
	LinkSupports       LinkType = "supports"
	LinkSupportedBy    LinkType = "supported_by"
	LinkRelated        LinkType = "related"
)

var linkTypes = map[string]LinkType{
	string(LinkReference):      LinkReference,
	string(LinkExtends):        LinkExtends,
	string(LinkExtendedBy):     LinkExtendedBy,
	string(LinkRefines):        LinkRefines,
	string(LinkRefinedBy):      LinkRefinedBy,
	string(LinkContradicts):    LinkContradicts,
	string(LinkContradictedBy): LinkContradictedBy,
	string(LinkQuestions):      LinkQuestions,
	string(LinkQuestionedBy):   LinkQuestionedBy,
	string(LinkSupports):       LinkSupports,
	string(LinkSupportedBy):    LinkSupportedBy,
	string(LinkRelated):        LinkRelated,
}

// inverseLinkTypes maps each link type to its semantic inverse.
// reference and related are their own inverses.
var inverseLinkTypes = map[LinkType]LinkType{
	LinkReference:      LinkReference,
	LinkExtends:        LinkExtendedBy,
	LinkExtendedBy:     LinkExtends,
	LinkRefines:        LinkRefinedBy,
	LinkRefinedBy:      LinkRefines,
	LinkContradicts:    LinkContradictedBy,
	LinkContradictedBy: LinkContradicts,
	LinkQuestions:      LinkQuestionedBy,
	LinkQuestionedBy:   LinkQuestions,
	LinkSupports:       LinkSupportedBy,
	LinkSupportedBy:    LinkSupports,
	LinkRelated:        LinkRelated,
}

// ParseLinkType maps a caller-supplied string to a LinkType.
func ParseLinkType(s string) (LinkType, error) {
	if t, ok := linkTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown link type %q (valid: reference, extends, extended_by, refines, refined_by, contradicts, contradicted_by, questions, questioned_by, supports, supported_by, related)", s)
}

// Inverse returns the semantic inverse of t.
func (t LinkType) Inverse() LinkType {
	if inv, ok := inverseLinkTypes[t]; ok {
		return inv
	}
	return t
}

// Link is a directed, typed edge from one note to another. Links are owned
// by their source note and identified by (source, target, type).
type Link struct {
	SourceID    string    `json:"source_id"`
	TargetID    string    `json:"target_id"`
	Type        LinkType  `json:"link_type"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
