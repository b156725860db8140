package engine

import (
    "time"

    "pmsdash/internal/domain"
)

// Classification is the derived status of one identity.
type Classification struct {
    IdentityKey      string
    Status           domain.Status
    SubmissionCount  int
    FirstSubmittedAt *time.Time
    LastSubmittedAt  *time.Time
}

// Classify derives the completion status from an identity's submissions.
// Approved needs at least one submission and every one of them approved.
func Classify(key string, subs []domain.SubmissionEntry) Classification {
    c := Classification{IdentityKey: key, SubmissionCount: len(subs), Status: domain.StatusNotStarted}
    if len(subs) == 0 {
        return c
    }
    allApproved := true
    first, last := subs[0].CreatedAt, subs[0].CreatedAt
    for _, s := range subs {
        if s.State != domain.ApprovedState {
            allApproved = false
        }
        if s.CreatedAt.Before(first) {
            first = s.CreatedAt
        }
        if s.CreatedAt.After(last) {
            last = s.CreatedAt
        }
    }
    if allApproved {
        c.Status = domain.StatusApproved
    } else {
        c.Status = domain.StatusInProgress
    }
    c.FirstSubmittedAt = &first
    c.LastSubmittedAt = &last
    return c
}
