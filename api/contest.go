package api

import "time"

type Contest struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Begin       time.Time `json:"begin"`
	End         time.Time `json:"end"`
	ManagerName string    `json:"manager_name"`
	Openness    int       `json:"openness"`
}

// Property is a free-form attribute of a problem, e.g. time or memory limit.
type Property struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Problem struct {
	// Num is the label inside the contest ("A", "B", ...), not the position.
	Num     string `json:"num"`
	Title   string `json:"title"`
	OJ      string `json:"oj"`
	ProbNum string `json:"prob_num"`

	DescriptionID      int `json:"description_id"`
	DescriptionVersion int `json:"description_version"`

	Properties []Property `json:"properties"`
}

type ContestDetail struct {
	Problems []Problem `json:"problems"`
}
