package models

import "testing"

func TestInverse(t *testing.T) {
	cases := []struct {
		in, want LinkType
	}{
		{LinkReference, LinkReference},
		{LinkRelated, LinkRelated},
		{LinkExtends, LinkExtendedBy},
		{LinkExtendedBy, LinkExtends},
		{LinkRefines, LinkRefinedBy},
		{LinkRefinedBy, LinkRefines},
		{LinkContradicts, LinkContradictedBy},
		{LinkContradictedBy, LinkContradicts},
		{LinkQuestions, LinkQuestionedBy},
		{LinkQuestionedBy, LinkQuestions},
		{LinkSupports, LinkSupportedBy},
		{LinkSupportedBy, LinkSupports},
	}
	for _, c := range cases {
		if got := c.in.Inverse(); got != c.want {
			t.Errorf("Inverse(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestInverse_Involution(t *testing.T) {
	for _, lt := range linkTypes {
		if got := lt.Inverse().Inverse(); got != lt {
			t.Errorf("Inverse(Inverse(%s)) = %s", lt, got)
		}
	}
}

func TestParseLinkType(t *testing.T) {
	if lt, err := ParseLinkType(" Extends "); err != nil || lt != LinkExtends {
		t.Errorf("ParseLinkType = %v, %v", lt, err)
	}
	if _, err := ParseLinkType("mentions"); err == nil {
		t.Error("expected error for unknown link type")
	}
}
