package model

import "time"

const (
	TableName  = "todos"
	EntityName = "todo"

	FieldTodoID    = "todo_id"
	FieldOwnerID   = "owner_id"
	FieldCreatedAt = "created_at"
	FieldName      = "name"
	FieldDueDate   = "due_date"
	FieldDone      = "done"
	FieldHasImage  = "has_image"
)

// Todo is one stored item. (TodoID, OwnerID) is its key and TodoID alone is unique.
type Todo struct {
	TodoID    string    `db:"todo_id"`
	OwnerID   string    `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`
	Name      string    `db:"name"`
	DueDate   string    `db:"due_date"`
	Done      bool      `db:"done"`
	HasImage  bool      `db:"has_image"`
}

// Exists reports whether a lookup found a record.
func (t Todo) Exists() bool {
	return t.TodoID != ""
}

// AttachmentName is the object name of the todo's image.
func AttachmentName(todoID, extension string) string {
	return todoID + extension
}
