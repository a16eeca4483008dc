package youtrack

import (
	"encoding/json"
	"strings"
	"time"

	"gitlab-youtrack-automation/internal/model"
)

const stateFieldName = "State"

// Config configures the REST client.
type Config struct {
	URL           string
	Token         string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	RatePerSec    float64
}

type issueDTO struct {
	ID           string           `json:"id"`
	IDReadable   string           `json:"idReadable"`
	Summary      string           `json:"summary"`
	Description  string           `json:"description"`
	Project      *projectDTO      `json:"project"`
	Tags         []tagDTO         `json:"tags"`
	CustomFields []customFieldDTO `json:"customFields"`
}

type projectDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type tagDTO struct {
	ID    string    `json:"id,omitempty"`
	Name  string    `json:"name"`
	Color *colorDTO `json:"color,omitempty"`
}

type colorDTO struct {
	ID string `json:"id"`
}

type customFieldDTO struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

type namedDTO struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Type string `json:"$type,omitempty"`
}

type projectCustomFieldDTO struct {
	ID     string     `json:"id"`
	Type   string     `json:"$type"`
	Field  namedDTO   `json:"field"`
	Bundle *bundleDTO `json:"bundle"`
}

type bundleDTO struct {
	ID     string     `json:"id"`
	Values []namedDTO `json:"values"`
}

type stateUpdateDTO struct {
	Type  string   `json:"$type"`
	Value namedDTO `json:"value"`
}

type descriptionUpdateDTO struct {
	Description string `json:"description"`
}

// stateField is the state field of one project with its allowed values.
type stateField struct {
	id     string
	values []namedDTO
}

// lookup finds a state value by name, ignoring case.
func (f stateField) lookup(name string) (namedDTO, bool) {
	for _, v := range f.values {
		if strings.EqualFold(v.Name, name) {
			return v, true
		}
	}
	return namedDTO{}, false
}

func (d issueDTO) toModel() model.Issue {
	issue := model.Issue{
		ID:          d.ID,
		IDReadable:  d.IDReadable,
		Summary:     d.Summary,
		Description: d.Description,
	}
	if d.Project != nil {
		issue.ProjectID = d.Project.ID
		issue.ProjectName = d.Project.Name
	}
	for _, t := range d.Tags {
		issue.Tags = append(issue.Tags, t.Name)
	}
	for _, f := range d.CustomFields {
		if f.Name != stateFieldName || len(f.Value) == 0 {
			continue
		}
		var v namedDTO
		if err := json.Unmarshal(f.Value, &v); err == nil {
			issue.State = v.Name
		}
	}
	return issue
}
