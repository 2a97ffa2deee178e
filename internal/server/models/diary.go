// Package models defines server-side data models persisted in the database.
package models

import "time"

// Diary is the top-level journal container. Access is granted through the
// diary_users join table.
type Diary struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Entry is one dated page of a diary.
type Entry struct {
	ID        string
	DiaryID   string
	Day       time.Time
	UpdatedAt time.Time
}

// EditorState holds the serialized rich-text document of an entry.
// There is exactly one per entry.
type EditorState struct {
	EntryID string
	Data    []byte
}
