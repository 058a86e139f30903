package models

type TaskStatus string

const (
	StatusNew        TaskStatus = "New"
	StatusInProgress TaskStatus = "InProgress"
	StatusDone       TaskStatus = "Done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Task struct {
	Base        `bson:",inline"`
	Name        string     `json:"name" bson:"name"`
	Project     string     `json:"project" bson:"project"`
	ProjectID   string     `json:"projectId,omitempty" bson:"projectId,omitempty"`
	Status      TaskStatus `json:"status" bson:"status"`
	Priority    Priority   `json:"priority" bson:"priority"`
	Rating      Rating     `json:"rating" bson:"rating"`
	Assignees   []string   `json:"assignees" bson:"assignees"`
	Deadline    string     `json:"deadline" bson:"deadline"`
	Tags        []string   `json:"tags" bson:"tags"`
	Image       string     `json:"image" bson:"image"`
	Description string     `json:"description" bson:"description"`
}

func (t *Task) ApplyDefaults() {
	if t.Status == "" {
		t.Status = StatusNew
	}
	if t.Priority == "" {
		t.Priority = PriorityLow
	}
	if t.Assignees == nil {
		t.Assignees = []string{}
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
}

func (t *Task) Validate() error {
	if err := required("name", t.Name); err != nil {
		return err
	}
	if !t.Status.Valid() {
		return &ValidationError{Field: "status", Message: "status must be one of New, InProgress, Done"}
	}
	if !t.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: "priority must be one of Low, Medium, High"}
	}
	return validRating(t.Rating)
}

func (t *Task) ProjectName() string    { return t.Project }
func (t *Task) SetProjectID(id string) { t.ProjectID = id }
