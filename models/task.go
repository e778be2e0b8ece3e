package models

const (
	UrgentOn  = "on"
	UrgentOff = "off"
)

type Task struct {
	ID              string `json:"-"`
	CategoryName    string `json:"category_name"`
	TaskName        string `json:"task_name"`
	TaskDescription string `json:"task_description"`
	IsUrgent        string `json:"is_urgent"`
	DueDate         string `json:"due_date"`
	CreatedBy       string `json:"created_by"`
}

// Urgent reports whether the task is flagged urgent.
func (t Task) Urgent() bool {
	return t.IsUrgent == UrgentOn
}

// TaskForm is the typed payload of the add and edit task forms.
type TaskForm struct {
	CategoryName    string
	TaskName        string
	TaskDescription string
	IsUrgent        bool
	DueDate         string
}

// Task builds the stored document for the form, owned by createdBy.
func (f TaskForm) Task(createdBy string) Task {
	urgent := UrgentOff
	if f.IsUrgent {
		urgent = UrgentOn
	}
	return Task{
		CategoryName:    f.CategoryName,
		TaskName:        f.TaskName,
		TaskDescription: f.TaskDescription,
		IsUrgent:        urgent,
		DueDate:         f.DueDate,
		CreatedBy:       createdBy,
	}
}
