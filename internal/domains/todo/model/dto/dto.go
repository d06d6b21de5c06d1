package dto

import (
	"todos/internal/domains/todo/model"
	"todos/shared/constant"
	"todos/shared/timezone"

	"github.com/google/uuid"
)

type CreateTodoRequest struct {
	Name    string `json:"name"    validate:"required,notblank,max=255"`
	DueDate string `json:"dueDate" validate:"required,duedate"`
}

// ToModel builds a fresh, not done, imageless record owned by userID.
func (c *CreateTodoRequest) ToModel(userID string) model.Todo {
	return model.Todo{
		TodoID:    uuid.NewString(),
		OwnerID:   userID,
		CreatedAt: timezone.Now(),
		Name:      c.Name,
		DueDate:   c.DueDate,
		Done:      false,
		HasImage:  false,
	}
}

// UpdateTodoRequest replaces the three mutable fields. Done is a pointer so that false is still required.
type UpdateTodoRequest struct {
	Name    string `db:"name"     json:"name"    validate:"required,notblank,max=255"`
	DueDate string `db:"due_date" json:"dueDate" validate:"required,duedate"`
	Done    *bool  `db:"done"     json:"done"    validate:"required"`
}

type TodoResponse struct {
	UserID        string `json:"userId"`
	TodoID        string `json:"todoId"`
	CreatedAt     string `json:"createdAt"`
	Name          string `json:"name"`
	DueDate       string `json:"dueDate"`
	Done          bool   `json:"done"`
	HasImage      bool   `json:"hasImage"`
	AttachmentURL string `json:"attachmentUrl,omitempty"`
}

func (r *TodoResponse) FromModel(model model.Todo) {
	r.UserID = model.OwnerID
	r.TodoID = model.TodoID
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
	r.Name = model.Name
	r.DueDate = model.DueDate
	r.Done = model.Done
	r.HasImage = model.HasImage
}

type GetTodoResponse struct {
	Item TodoResponse `json:"item"`
}

type GetTodosResponse struct {
	Items []TodoResponse `json:"items"`
}

func (r *GetTodosResponse) FromModels(models []model.Todo) {
	r.Items = make([]TodoResponse, len(models))
	for i, mod := range models {
		r.Items[i].FromModel(mod)
	}
}

type UploadURLResponse struct {
	URL string `json:"url"`
}
