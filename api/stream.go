package api

import "time"

// MsgType is a message type for submission lifecycle events
type MsgType string

// Lifecycle message type constants
const (
	StartSubmitMsg    MsgType = "submit_start"
	RequireCaptchaMsg MsgType = "captcha_require"
	ResubmitMsg       MsgType = "submit_retry"
	PollStatusMsg     MsgType = "poll_status"
	FinishSubmitMsg   MsgType = "submit_finish"
)

// Diagnostic text size constraints for events
const (
	MaxInfoHeight = 40
	MaxInfoWidth  = 80
)

// Header is the common header for all lifecycle messages
type Header struct {
	ActionUuid string  `json:"action_uuid"`
	MsgType    MsgType `json:"msg_type"`
}

// StartSubmit message sent before the first submit call
type StartSubmit struct {
	Header
	ContestID   int    `json:"contest_id"`
	ProblemNum  string `json:"problem_num"`
	Language    string `json:"language"`
	CodeLength  int    `json:"code_length"`
	StartedTime string `json:"started_time"`
}

// RequireCaptcha message sent when the judge asked for a captcha
type RequireCaptcha struct {
	Header
	EndpointUsed *string `json:"endpoint_used"`
}

// Resubmit message sent when the submit is retried with a captcha value
type Resubmit struct {
	Header
}

// PollStatus message sent for every polled snapshot
type PollStatus struct {
	Header
	RunID      int    `json:"run_id"`
	Status     string `json:"status"`
	Processing bool   `json:"processing"`
}

// FinishSubmit message sent when the action reaches a terminal state
type FinishSubmit struct {
	Header
	State          string  `json:"state"`
	RunID          *int    `json:"run_id"`
	Status         *string `json:"status"`
	StatusType     *int    `json:"status_type"`
	AdditionalInfo *string `json:"additional_info"`
	ErrorMessage   *string `json:"error_message"`
	FinishedTime   string  `json:"finished_time"`
}

// Helper function to create a header
func NewHeader(actionUuid string, msgType MsgType) Header {
	return Header{
		ActionUuid: actionUuid,
		MsgType:    msgType,
	}
}

// Helper functions to create specific lifecycle message types
func NewStartSubmit(actionUuid string, contestID int, problemNum, language string, codeLength int) StartSubmit {
	return StartSubmit{
		Header:      NewHeader(actionUuid, StartSubmitMsg),
		ContestID:   contestID,
		ProblemNum:  problemNum,
		Language:    language,
		CodeLength:  codeLength,
		StartedTime: time.Now().Format(time.RFC3339),
	}
}

func NewRequireCaptcha(actionUuid string, endpointUsed *string) RequireCaptcha {
	return RequireCaptcha{
		Header:       NewHeader(actionUuid, RequireCaptchaMsg),
		EndpointUsed: endpointUsed,
	}
}

func NewResubmit(actionUuid string) Resubmit {
	return Resubmit{
		Header: NewHeader(actionUuid, ResubmitMsg),
	}
}

func NewPollStatus(actionUuid string, snapshot *Solution) PollStatus {
	return PollStatus{
		Header:     NewHeader(actionUuid, PollStatusMsg),
		RunID:      snapshot.RunID,
		Status:     snapshot.Status,
		Processing: snapshot.Processing,
	}
}

func NewFinishSubmit(actionUuid string, state string, runID *int, solution *Solution, errorMessage *string) FinishSubmit {
	msg := FinishSubmit{
		Header:       NewHeader(actionUuid, FinishSubmitMsg),
		State:        state,
		RunID:        runID,
		ErrorMessage: errorMessage,
		FinishedTime: time.Now().Format(time.RFC3339),
	}
	if solution != nil {
		status := solution.Status
		statusType := int(solution.StatusType)
		msg.Status = &status
		msg.StatusType = &statusType
		if solution.AdditionalInfo != "" {
			info := solution.AdditionalInfo
			msg.AdditionalInfo = &info
		}
	}
	return msg
}
