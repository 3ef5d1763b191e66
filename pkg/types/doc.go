// Package types defines the entity model (Status, Epic, Story, DBState), the
// Store interface, backend configuration, and the standard error values shared
// by the backlog storage backends, repository, and terminal UI.
package types
