package models

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Project struct {
	Base           `bson:",inline"`
	Name           string   `json:"name" bson:"name"`
	Tags           []string `json:"tags" bson:"tags"`
	ProjectManager string   `json:"projectManager" bson:"projectManager"`
	Deadline       string   `json:"deadline" bson:"deadline"`
	Priority       Priority `json:"priority" bson:"priority"`
	Rating         Rating   `json:"rating" bson:"rating"`
	Image          string   `json:"image" bson:"image"`
	AssigneeImage  string   `json:"assigneeImage" bson:"assigneeImage"`
	Description    string   `json:"description" bson:"description"`
}

func (p *Project) ApplyDefaults() {
	if p.Priority == "" {
		p.Priority = PriorityLow
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

func (p *Project) Validate() error {
	if err := required("name", p.Name); err != nil {
		return err
	}
	if !p.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: "priority must be one of Low, Medium, High"}
	}
	return validRating(p.Rating)
}
