package api

// SubmitRecord summarizes one submit action after it finished
type SubmitRecord struct {
	ActionUuid      string  `json:"action_uuid"`
	ContestID       int     `json:"contest_id"`
	ProblemNum      string  `json:"problem_num"`
	Language        string  `json:"language"`
	State           string  `json:"state"`
	RunID           *int    `json:"run_id"`
	Status          *string `json:"status"`
	StatusType      *int    `json:"status_type"`
	CaptchaRequired bool    `json:"captcha_required"`
	CaptchaEndpoint *string `json:"captcha_endpoint"`
	Polls           int     `json:"polls"`
	ErrorMessage    *string `json:"error_message"`
	StartTime       string  `json:"start_time"`
	FinishTime      string  `json:"finish_time"`
	TotalTimeMs     int64   `json:"total_time_ms"`
}
