package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    DocumentStatus
		to      DocumentStatus
		allowed bool
	}{
		{StatusDraft, StatusReview, true},
		{StatusDraft, StatusPublished, true},
		{StatusDraft, StatusArchived, true},
		{StatusReview, StatusPublished, true},
		{StatusReview, StatusArchived, true},
		{StatusPublished, StatusArchived, true},

		{StatusReview, StatusDraft, false},
		{StatusPublished, StatusDraft, false},
		{StatusPublished, StatusReview, false},
		{StatusDraft, StatusDraft, false},

		// Archived is terminal.
		{StatusArchived, StatusDraft, false},
		{StatusArchived, StatusReview, false},
		{StatusArchived, StatusPublished, false},
		{StatusArchived, StatusArchived, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestInvalidTransitionError(t *testing.T) {
	err := &InvalidTransitionError{From: StatusArchived, To: StatusDraft}
	assert.Contains(t, err.Error(), "archived")
	assert.Contains(t, err.Error(), "draft")
}
