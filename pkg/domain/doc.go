/*
Package domain contains the data model of a resumable onboarding workflow.

It defines the ordered workflow steps, the Snapshot aggregate persisted between
interruptions, and the pure helpers derived from it (progress signal, summary).
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - WorkflowStep: The screen the user is on, totally ordered by rank.
  - Snapshot: How far one workflow instance has progressed (form, selections,
    remote results, payment, asset assignment) plus the savedAt/version stamps.
  - Summary: The display triple shown when offering to resume a session.
*/
package domain
