package services

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bibekrb/exam_custody_tracker/utils"
)

// Machine-readable rejection codes. The mobile app keys its retry guidance
// off these, so they are part of the wire contract.
const (
	CodeNotAnExamDay        = "NOT_AN_EXAM_DAY"
	CodeNoSchedule          = "NO_SCHEDULE"
	CodeNotAuthorized       = "NOT_AUTHORIZED"
	CodeStepOutOfOrder      = "STEP_OUT_OF_ORDER"
	CodeOutsideTimeWindow   = "OUTSIDE_TIME_WINDOW"
	CodeDuplicateSubmission = "DUPLICATE_SUBMISSION"
	CodeUploadFailed        = "UPLOAD_FAILED"
	CodeNetworkError        = "NETWORK_ERROR"
)

// TrackerError is a rejection the caller can act on. MissingStep and Window
// carry the detail the UI needs to explain what to do next.
type TrackerError struct {
	Code        string `json:"error_code"`
	Message     string `json:"error"`
	Status      int    `json:"-"`
	MissingStep string `json:"missing_step,omitempty"`
	Window      string `json:"window,omitempty"`
}

func (e *TrackerError) Error() string {
	return e.Message
}

func NewNotAnExamDayError(date time.Time) *TrackerError {
	return &TrackerError{
		Code:    CodeNotAnExamDay,
		Message: fmt.Sprintf("%s is not a scheduled exam day for this center; the tracker is not available", utils.FormatDate(date)),
		Status:  http.StatusUnprocessableEntity,
	}
}

func NewNoScheduleError(date time.Time) *TrackerError {
	return &TrackerError{
		Code:    CodeNoSchedule,
		Message: fmt.Sprintf("no exam schedule exists for %s", utils.FormatDate(date)),
		Status:  http.StatusNotFound,
	}
}

func NewNotAuthorizedError() *TrackerError {
	return &TrackerError{
		Code:    CodeNotAuthorized,
		Message: "only the designated center superintendent may submit custody events for this school",
		Status:  http.StatusForbidden,
	}
}

func NewStepOutOfOrderError(missingStep string) *TrackerError {
	return &TrackerError{
		Code:        CodeStepOutOfOrder,
		Message:     fmt.Sprintf("cannot submit this step yet: %s has not been completed", missingStep),
		Status:      http.StatusConflict,
		MissingStep: missingStep,
	}
}

func NewOutsideTimeWindowError(w TimeWindow) *TrackerError {
	return &TrackerError{
		Code:    CodeOutsideTimeWindow,
		Message: fmt.Sprintf("submissions for this step are only accepted during %s", w.Label),
		Status:  http.StatusUnprocessableEntity,
		Window:  w.Label,
	}
}

func NewDuplicateSubmissionError(eventType string) *TrackerError {
	return &TrackerError{
		Code:    CodeDuplicateSubmission,
		Message: fmt.Sprintf("%s has already been submitted for this exam day", eventType),
		Status:  http.StatusConflict,
	}
}

func NewUploadFailedError(err error) *TrackerError {
	return &TrackerError{
		Code:    CodeUploadFailed,
		Message: fmt.Sprintf("evidence photo upload failed: %v", err),
		Status:  http.StatusBadGateway,
	}
}
